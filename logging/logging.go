// Package logging builds the zap logger shared by the engine and its front ends
// The terminal is in raw mode while the field animates, so output goes to a file or nowhere
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultDir is where log files go when Config.Dir is empty
	DefaultDir = "logs"
	// FileName is the active log file inside the directory
	FileName = "particlefield.log"
	// MaxSize triggers rotation of an existing log file at startup
	MaxSize = 10 * 1024 * 1024
)

// Config selects the logger
type Config struct {
	// Enabled turns logging on; a disabled config yields a no-op logger and no file
	Enabled bool
	Dir     string
	// Level is one of debug, info, warn, error; empty means debug
	Level string
	// Development switches to the console encoder with caller info
	Development bool
}

// New builds the logger; the returned close func syncs and releases the file
func New(cfg Config) (*zap.Logger, func() error, error) {
	if !cfg.Enabled {
		return zap.NewNop(), func() error { return nil }, nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := rotate(path, time.Now()); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	var enc zapcore.Encoder
	opts := []zap.Option{zap.ErrorOutput(zapcore.AddSync(f))}
	if cfg.Development {
		enc = zapcore.NewConsoleEncoder(encCfg)
		opts = append(opts, zap.AddCaller(), zap.Development())
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(f), ParseLevel(cfg.Level))
	logger := zap.New(core, opts...)

	closeFn := func() error {
		_ = logger.Sync()
		return f.Close()
	}
	return logger, closeFn, nil
}

// ParseLevel maps a level name to a zap level, unknown names fall back to debug
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

// rotate renames path aside when it exceeds MaxSize
func rotate(path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= MaxSize {
		return nil
	}
	ext := filepath.Ext(path)
	rotated := strings.TrimSuffix(path, ext) + "-" + now.Format("20060102-150405") + ext
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
