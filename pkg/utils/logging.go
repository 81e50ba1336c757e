package utils

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig selects where logs go and how verbose they are. An empty File
// logs to stderr only; an empty Level means info.
type LogConfig struct {
	File  string `yaml:"file" toml:"file" json:"file,omitempty"`
	Level string `yaml:"level" toml:"level" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the process logger, built on first use from the LOG_FILE
// environment variable.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		l, err := NewLogger(LogConfig{File: os.Getenv("LOG_FILE")})
		if err != nil {
			l, _ = NewLogger(LogConfig{})
		}
		logger = l
	})
	return logger
}

// SetLogger replaces the process logger, typically right after the
// configuration has been loaded.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}

// NewLogger builds a JSON logger writing to stderr and, when cfg.File is
// set, appending to that file as well.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(cfg.Level); err != nil {
			return nil, err
		}
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	console := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	if cfg.File == "" {
		return zap.New(console), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	file := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
	return zap.New(zapcore.NewTee(file, console)), nil
}
