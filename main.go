package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/folio-layout/folio/config"
	"github.com/folio-layout/folio/doc"
	"github.com/folio-layout/folio/dsl"
	"github.com/folio-layout/folio/fonts"
	"github.com/folio-layout/folio/render/canvas"
	"github.com/folio-layout/folio/shape"
)

func main() {
	cmd := &cli.Command{
		Name:  "folio",
		Usage: "从标准输入读取文档描述，生成 PDF 写到标准输出",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "输入格式：json 或 dsl",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML 配置文件路径",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "绑定到文档的 JSON 数据",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "PDF 输出路径，默认写标准输出",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "输出调试日志到标准错误",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.Bool("debug") {
		cfg.Logging.Level = "debug"
	}

	logger, closeLog, err := cfg.Logging.Prepare()
	if err != nil {
		return err
	}
	defer closeLog()

	var data any
	if raw := cmd.String("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	document, err := parseInput(os.Stdin, cmd.String("format"))
	if err != nil {
		return err
	}

	pdf, err := generate(document, cfg, data, logger)
	if err != nil {
		return err
	}

	if out := cmd.String("out"); out != "" {
		if err := os.WriteFile(out, pdf, 0o644); err != nil {
			return fmt.Errorf("写入 PDF 失败: %w", err)
		}
		logger.Info("已写出 PDF", zap.String("path", out), zap.Int("bytes", len(pdf)))
		return nil
	}
	if _, err := os.Stdout.Write(pdf); err != nil {
		return fmt.Errorf("写出 PDF 失败: %w", err)
	}
	return nil
}

// parseInput 按 format 解析文档描述。
func parseInput(r io.Reader, format string) (*doc.Document, error) {
	switch format {
	case "json":
		d, err := doc.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("解析 JSON 文档失败: %w", err)
		}
		return d, nil
	case "dsl":
		ast, err := dsl.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("解析 DSL 失败: %w", err)
		}
		d, err := dsl.Compile(ast)
		if err != nil {
			return nil, fmt.Errorf("编译 DSL 失败: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("未知的输入格式 %q，只支持 json 和 dsl", format)
	}
}

// generate 渲染全部条目并返回 PDF 字节。只有整份文档成功才产生输出。
func generate(document *doc.Document, cfg *config.Config, data any, logger *zap.Logger) ([]byte, error) {
	library := canvas.NewLibrary()
	shaper := shape.NewShaper(library, shape.NewCache(cfg.Shaping.CacheSize))
	writer := canvas.NewDocument(document.Metadata(), library)

	res := doc.Resources{
		Shaper: shaper,
		Fonts:  library,
		Load:   resourceLoader(cfg.Resources.BaseDir),
		Data:   data,
		Log:    logger,
	}

	pages, err := document.Generate(res, writer)
	if err != nil {
		return nil, err
	}
	logger.Debug("排版完成", zap.Int("pages", pages), zap.Int("entries", len(document.Entries)))

	pdf, err := writer.Finish()
	if err != nil {
		return nil, fmt.Errorf("生成 PDF 失败: %w", err)
	}
	return pdf, nil
}

// resourceLoader 解析文档里的资源路径。"builtin:" 走内置字体，其余按
// baseDir 下的相对路径读取文件。
func resourceLoader(baseDir string) func(path string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		if fonts.IsBuiltin(path) {
			return fonts.Load(path)
		}
		full := path
		if !filepath.IsAbs(path) {
			full = filepath.Join(baseDir, path)
		}
		return os.ReadFile(full)
	}
}
