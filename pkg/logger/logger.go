package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger printf-style logger on top of zap.
// Writes JSON to stdout and, if file is set, to that file as well.
type Logger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New creates a logger. level: debug, info, warn, error (default info)
func New(file string, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	outputs := []string{"stdout"}
	if file != "" {
		outputs = append(outputs, file)
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "json",
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			MessageKey:     "msg",
			CallerKey:      "caller",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}

	base, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logger: build zap logger: %w", err)
	}

	return &Logger{base: base, sugar: base.Sugar()}, nil
}

// NewNop logger that discards everything, for tests
func NewNop() *Logger {
	base := zap.NewNop()
	return &Logger{base: base, sugar: base.Sugar()}
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("logger: unknown level %q", level)
	}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Fatal logs and exits the process
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

// Close flushes buffered entries
func (l *Logger) Close() error {
	// Sync on stdout returns EINVAL on some platforms, nothing to do about it
	_ = l.base.Sync()
	return nil
}
