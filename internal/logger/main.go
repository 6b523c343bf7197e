// Package logger sets up the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes every event to the writer of its level.
//
//	trace         -> TraceWriter
//	debug, info   -> InfoWriter
//	warn          -> WarnWriter
//	error and up  -> ErrorWriter
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures log.Logger from cfg. With neither console nor file
// enabled the logger stays silent.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	stack := logLevel == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = ErrorHandler

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if fw := newRollingLevelFiles(cfg); fw != nil {
			writers = append(writers, fw)
		}
	}

	zctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	switch {
	case cfg.ReportCaller && stack:
		zctx = zctx.Stack()
	case cfg.ReportCaller:
		zctx = zctx.Caller()
	}

	log.Logger = zctx.Logger()

	return nil
}

// NewRollingFile returns a lumberjack writer below dir.
func NewRollingFile(dir string, r Rotation) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, r.File),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
		LocalTime:  false,
		Compress:   false,
	}
}

func newRollingLevelFiles(cfg Log) io.Writer {
	if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil { //nolint: mnd
		log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

		return nil
	}

	return &LevelWriter{
		ErrorWriter: NewRollingFile(cfg.File.Path, cfg.File.Error()),
		InfoWriter:  NewRollingFile(cfg.File.Path, cfg.File.Info()),
		TraceWriter: NewRollingFile(cfg.File.Path, cfg.File.Trace()),
		WarnWriter:  NewRollingFile(cfg.File.Path, cfg.File.Warn()),
	}
}

// NewConsoleWriter sends info and debug to stdout, everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	wrap := func(out io.Writer) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return out
		}

		return zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    false,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	return &LevelWriter{
		ErrorWriter: wrap(os.Stderr),
		InfoWriter:  wrap(os.Stdout),
		TraceWriter: wrap(os.Stderr),
		WarnWriter:  wrap(os.Stderr),
	}
}
