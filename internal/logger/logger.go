// Package logger provides a process-wide leveled logger built on zap.
// Init must be called once at startup; the package-level helpers are safe
// to call before Init and simply drop messages.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

// Init configures the default logger. Level is one of debug, info, warn,
// error; format is "json" or "console". When outputPath is non-empty, log
// output goes to that file instead of stderr (the TUI uses this to keep the
// terminal clean).
func Init(level, format, outputPath string) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	if strings.ToLower(format) == "console" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if outputPath != "" {
		cfg.OutputPaths = []string{outputPath}
		cfg.ErrorOutputPaths = []string{outputPath}
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	log = l.Sugar()
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

func Debug(format string, args ...interface{}) {
	if log != nil {
		log.Debugf(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if log != nil {
		log.Infof(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if log != nil {
		log.Warnf(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if log != nil {
		log.Errorf(format, args...)
	}
}
