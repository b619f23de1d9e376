// Package logging builds the process logger.
//
// Console output always goes to stderr so stdout stays free for the stdio
// transport. With a directory configured, three rotated files are added under
// a per-day folder: application.log (info+), errors.log (error+) and
// debug.log (debug+).
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level names accepted by Config.Level.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config controls logger construction.
type Config struct {
	Level      string `yaml:"level" env:"AISENSY_LOG_LEVEL"`
	Dir        string `yaml:"dir" env:"AISENSY_LOG_DIR"`
	JSON       bool   `yaml:"json" env:"AISENSY_LOG_JSON"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultConfig returns info-level console logging with no files.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		MaxSizeMB:  10,
		MaxBackups: 5,
	}
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn, "warning":
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger from cfg. The returned close func flushes and releases
// the log files; it is safe to call when no files are open.
func New(cfg Config) (*zap.SugaredLogger, func() error, error) {
	return newLogger(cfg, os.Stderr, time.Now())
}

func newLogger(cfg Config, console io.Writer, now time.Time) (*zap.SugaredLogger, func() error, error) {
	def := DefaultConfig()
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = def.MaxSizeMB
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = def.MaxBackups
	}

	level := ParseLevel(cfg.Level)
	enc := zapcore.NewConsoleEncoder(encoderConfig)
	if cfg.JSON {
		enc = zapcore.NewJSONEncoder(encoderConfig)
	}
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(console), level),
	}

	var files []*lumberjack.Logger
	if cfg.Dir != "" {
		day := filepath.Join(cfg.Dir, now.Format("2006-01-02"))
		if err := os.MkdirAll(day, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		fileEnc := zapcore.NewJSONEncoder(encoderConfig)
		for _, f := range []struct {
			name string
			min  zapcore.Level
		}{
			{"application.log", maxLevel(level, zapcore.InfoLevel)},
			{"errors.log", maxLevel(level, zapcore.ErrorLevel)},
			{"debug.log", level},
		} {
			lj := &lumberjack.Logger{
				Filename:   filepath.Join(day, f.name),
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
			}
			files = append(files, lj)
			cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(lj), f.min))
		}
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if len(files) > 0 {
		logger.Sugar().Infow("logging initialized", "dir", filepath.Dir(files[0].Filename))
	}

	closeFn := func() error {
		_ = logger.Sync()
		var firstErr error
		for _, f := range files {
			if err := f.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return logger.Sugar(), closeFn, nil
}

func maxLevel(a, b zapcore.Level) zapcore.Level {
	if a > b {
		return a
	}
	return b
}
