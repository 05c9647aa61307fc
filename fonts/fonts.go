// Package fonts 提供随二进制内置的字体。文档里用 "builtin:名字" 引用，
// 不依赖文件系统。
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const prefix = "builtin:"

var builtin = map[string][]byte{
	"go-regular":     goregular.TTF,
	"go-bold":        gobold.TTF,
	"go-italic":      goitalic.TTF,
	"go-bold-italic": gobolditalic.TTF,
	"go-mono":        gomono.TTF,
}

// IsBuiltin 报告路径是否引用内置字体。
func IsBuiltin(path string) bool {
	return strings.HasPrefix(path, prefix)
}

// Load 返回内置字体的字节数据，path 形如 "builtin:go-regular"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, prefix)
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("没有内置字体 %q", name)
	}
	return data, nil
}

// Names 返回全部内置字体名。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	return names
}
