// Package fiber provides a zerolog access log middleware for fiber.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/logger"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError is set on responses whose handler chain failed.
	CacheControlError string

	// CheckAliveURI for disabling logging of check alive http calls.
	CheckAliveURI string

	// Output replaces the writers derived from Config when set.
	Output io.Writer
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{
	Next:              nil,
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	return cfg
}

func accessWriters(cfg *Config) []io.Writer {
	if cfg.Output != nil {
		return []io.Writer{cfg.Output}
	}

	var writers []io.Writer

	if cfg.Config.File.Enabled {
		if err := os.MkdirAll(cfg.Config.File.Path, 0o750); err != nil {
			log.Error().Err(err).Str("path", cfg.Config.File.Path).Msg("can't create log directory")
		} else {
			writers = append(writers, logger.NewRollingFile(cfg.Config.File.Path, cfg.Config.File.Access()))
		}
	}

	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return writers
}

// New creates a fiber access logging middleware using zerolog.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	writers := accessWriters(&cfg)

	accessLogger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if errH := c.App().ErrorHandler(c, chainErr); errH != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}

			c.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
		}

		elapsed := time.Since(start).Seconds()
		c.Response().Header.Set("X-Performance", strconv.FormatFloat(elapsed, 'f', 6, 64))

		if len(writers) == 0 {
			return nil
		}

		if cfg.Config.DisableCheckAlive && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		// fasthttp normalizes //a//b to /a/b; log what the client sent.
		uri := c.Path()
		if qs := c.Request().URI().QueryString(); len(qs) > 0 {
			uri += "?" + string(qs)
		}

		event := accessLogger.Log().
			Str("IP", c.IP()).
			Int("status", c.Response().StatusCode()).
			Float64("X-Performance", elapsed).
			Str("URI", uri).
			Str("method", c.Method()).
			Bytes("host", c.Request().Host()).
			Str(fiber.HeaderXForwardedFor, c.Get(fiber.HeaderXForwardedFor)).
			Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderReferer, c.Get(fiber.HeaderReferer))

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}
