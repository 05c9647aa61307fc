// Package config 提供 YAML 配置的加载、默认值与校验。
package config

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config 是程序的全部可配置项。
type Config struct {
	Shaping   ShapingConfig   `yaml:"shaping"`
	Resources ResourcesConfig `yaml:"resources"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ShapingConfig 控制整形缓存。
type ShapingConfig struct {
	// CacheSize 是整形缓存的条目数上限。
	CacheSize int `yaml:"cache_size"`
}

// ResourcesConfig 控制字体与图片等外部资源的解析。
type ResourcesConfig struct {
	// BaseDir 是文档里相对资源路径的根目录，默认为当前目录。
	BaseDir string `yaml:"base_dir"`
}

// LoggingConfig 控制日志输出。PDF 走标准输出，控制台日志只进标准错误。
type LoggingConfig struct {
	// Level 取 none、normal 或 debug。
	Level string `yaml:"level"`

	// File 可选的日志文件路径。
	File string `yaml:"file,omitempty"`

	// Mode 是日志文件的写入方式：append 或 overwrite。
	Mode string `yaml:"mode,omitempty"`
}

// Default 返回全部默认值的配置。
func Default() *Config {
	return &Config{
		Shaping:   ShapingConfig{CacheSize: 1024},
		Resources: ResourcesConfig{BaseDir: "."},
		Logging:   LoggingConfig{Level: "normal", Mode: "overwrite"},
	}
}

// Load 从 path 读取配置，叠加在默认值之上并校验。path 为空时返回默认
// 配置。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置并聚合所有错误。
func (c *Config) Validate() error {
	var err error
	if c.Shaping.CacheSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("shaping.cache_size 必须为正数，得到 %d", c.Shaping.CacheSize))
	}
	if c.Resources.BaseDir == "" {
		err = multierr.Append(err, fmt.Errorf("resources.base_dir 不能为空"))
	}
	switch c.Logging.Level {
	case "none", "normal", "debug":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level 只接受 none、normal 或 debug，得到 %q", c.Logging.Level))
	}
	switch c.Logging.Mode {
	case "", "append", "overwrite":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.mode 只接受 append 或 overwrite，得到 %q", c.Logging.Mode))
	}
	return err
}
