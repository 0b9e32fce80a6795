package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits of the log file.
const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

// NewFileLogger returns a logger that writes console lines to stderr and JSON lines to a
// size-rotated file at path. The returned closer closes the file.
func NewFileLogger(name, path string, level zapcore.Level) (Logger, io.Closer) {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		Compress:   true,
	}
	consoleConfig := NewLoggerConfig().EncoderConfig
	fileConfig := consoleConfig
	fileConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(rotator), level),
	)
	return FromZapCompatible(zap.New(core).Sugar().Named(name)), rotator
}
