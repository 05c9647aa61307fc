package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Prepare 按配置构建 zap logger。控制台日志一律写标准错误，标准输出
// 留给 PDF 字节流。返回的 closer 负责冲刷并关闭日志文件。
func (c *LoggingConfig) Prepare() (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	switch c.Level {
	case "none":
		return zap.NewNop(), func() {}, nil
	case "debug":
		level = zapcore.DebugLevel
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(ec),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)

	cores := []zapcore.Core{consoleCore}
	closer := func() {}

	if c.File != "" {
		flags := os.O_CREATE | os.O_WRONLY
		if c.Mode == "append" {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(c.File, flags, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		fileCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(f),
			zap.NewAtomicLevelAt(zapcore.DebugLevel),
		)
		cores = append(cores, fileCore)
		closer = func() { _ = f.Close() }
	}

	logger := zap.New(zapcore.NewTee(cores...))
	return logger, func() {
		_ = logger.Sync()
		closer()
	}, nil
}
