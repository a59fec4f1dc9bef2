// Package logging builds the zerolog logger shared by every layer. Logs never
// go to stdout, which carries the module result.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

// Options configures New.
type Options struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	NoColor    bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to w (and to a rotating file when opts.File is
// set) tagged with a fresh invocation id. The closer releases the file.
func New(w io.Writer, opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.WarnLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var out io.Writer = w
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: w, NoColor: opts.NoColor}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	logger := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", "cloudinfo").
		Str(common.LogStrInvocation, uuid.NewString()).
		Logger()

	return logger, closer, nil
}

// Verbose lowers the level to debug when the controller asked for it.
func Verbose(logger zerolog.Logger, debug bool, verbosity int) zerolog.Logger {
	if debug || verbosity >= 3 {
		return logger.Level(zerolog.DebugLevel)
	}
	return logger
}
