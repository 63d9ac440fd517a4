// Package enginelog provides the structured logger shared by the
// engine and its backends. Library code defaults to a no-op logger so
// importing voroscope's packages never forces logging configuration
// on a caller; the CLI wires a real one.
package enginelog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Nop returns a logger that discards everything, suitable as the
// default for any constructor that accepts an optional *zap.Logger.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// Or returns l if non-nil, otherwise a no-op logger, for constructors
// that take an optional *zap.Logger. NewEngine does not call it; it
// keeps a nil logger and skips logging instead.
func Or(l *zap.Logger) *zap.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// FileOptions configures rotated, file-backed JSON logging for the
// CLI hosts (interactive and video-render).
type FileOptions struct {
	Path       string // destination file; empty logs to stderr instead of rotating
	MaxSizeMB  int    // rotate after this many megabytes (default 50)
	MaxBackups int    // old rotated files to keep
	MaxAgeDays int    // days to retain rotated files
	Level      zapcore.Level
}

// NewFile builds a JSON zap.Logger writing to a lumberjack-rotated
// file, or to stderr if Path is empty.
func NewFile(opts FileOptions) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	var ws zapcore.WriteSyncer
	if opts.Path == "" {
		ws = zapcore.Lock(os.Stderr)
	} else {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), ws, opts.Level)
	return zap.New(core)
}
