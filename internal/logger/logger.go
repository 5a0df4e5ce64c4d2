// Package logger builds the zap loggers used by the CLI and services.
package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// JSON switches to structured output for machine consumption.
	JSON    bool
	Verbose bool
	Quiet   bool
	// Output defaults to stderr so stdout stays reserved for reports.
	Output io.Writer
}

// New returns a sugared logger configured from opts.
func New(opts Options) *zap.SugaredLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zapcore.InfoLevel
	switch {
	case opts.Quiet:
		level = zapcore.ErrorLevel
	case opts.Verbose:
		level = zapcore.DebugLevel
	}

	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if isTerminal(out) {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	return zap.New(core).Sugar()
}

// Nop discards everything. Tests use it; the MCP server logs to stderr
// through New, leaving stdout to the protocol.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
