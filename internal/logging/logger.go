// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the structured logger.
type Options struct {
	// Level is a zap level name ("debug", "info", ...). Unknown values mean info.
	Level string
	// FilePath receives rotated JSON lines. Empty disables the file core.
	FilePath string
	// Console mirrors records to stderr in console encoding.
	Console bool
}

// Logger writes structured records tagged with a module name and a details map.
type Logger struct {
	z *zap.Logger
}

// New builds a logger with a lumberjack-rotated JSON file core and an optional
// console core.
func New(opts Options) (*Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o700); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level))
	}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			level,
		))
	}
	if len(cores) == 0 {
		return Nop(), nil
	}
	return &Logger{z: zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger { return &Logger{z: zap.NewNop()} }

func fields(module string, details map[string]any) []zap.Field {
	if details == nil {
		details = map[string]any{}
	}
	return []zap.Field{zap.String("module", module), zap.Any("details", details)}
}

func (l *Logger) Debug(module, message string, details map[string]any) {
	l.z.Debug(message, fields(module, details)...)
}

func (l *Logger) Info(module, message string, details map[string]any) {
	l.z.Info(message, fields(module, details)...)
}

func (l *Logger) Warn(module, message string, details map[string]any) {
	l.z.Warn(message, fields(module, details)...)
}

// Error logs at error level; a non-nil err is masked before it is recorded.
func (l *Logger) Error(module, message string, err error, details map[string]any) {
	fs := fields(module, details)
	if err != nil {
		fs = append(fs, zap.String("error", Mask(err.Error())))
	}
	l.z.Error(message, fs...)
}

func (l *Logger) Sync() error { return l.z.Sync() }
