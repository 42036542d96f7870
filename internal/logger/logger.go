// Package logger builds the zap logger used for console reporting.
//
// The console format renders one "LEVEL: message" line per entry, INFO and
// DEBUG on stdout and WARN and above on stderr. Structured fields appear on
// DEBUG lines only. The json format renders zap's production encoding, with
// every field, to the same streams.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is console or json.
	Format string
	// Out receives entries below WARN; defaults to os.Stdout.
	Out io.Writer
	// Err receives WARN and above; defaults to os.Stderr.
	Err io.Writer
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	var (
		encoder   zapcore.Encoder
		plainText bool
	)

	switch opts.Format {
	case constants.LogFormatJSON:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case constants.LogFormatConsole, "":
		encoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
		plainText = true
	default:
		return nil, fmt.Errorf("unsupported log format %q", opts.Format)
	}

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l < zapcore.WarnLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l >= zapcore.WarnLevel
	})

	outCore := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), low)
	errCore := zapcore.NewCore(encoder.Clone(), zapcore.Lock(zapcore.AddSync(errOut)), high)

	if plainText {
		outCore = messageCore{Core: outCore}
		errCore = messageCore{Core: errCore}
	}

	return zap.New(zapcore.NewTee(outCore, errCore)), nil
}

// messageCore writes INFO and above as the bare message. Fields attached
// with With are dropped.
type messageCore struct {
	zapcore.Core
}

func (c messageCore) With([]zapcore.Field) zapcore.Core {
	return c
}

func (c messageCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}

	return checked
}

func (c messageCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Level > zapcore.DebugLevel {
		fields = nil
	}

	return c.Core.Write(entry, fields)
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      prefixLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
	}
}

func prefixLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(level.CapitalString() + ":")
}
