// Package logging wraps a global zerolog logger for application events.
// HTTP access logs are written separately by the fiber logger middleware.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type Config struct {
	Level  string
	Format string // json or console
	Output io.Writer
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	Init(Config{})
}

func Init(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(output).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug() *zerolog.Event { return Logger().Debug() }
func Info() *zerolog.Event { return Logger().Info() }
func Warn() *zerolog.Event { return Logger().Warn() }
func Error() *zerolog.Event { return Logger().Error() }
func Fatal() *zerolog.Event { return Logger().Fatal() }

// FromFiber returns a logger annotated with the request id and, when the
// request is authenticated, the user id.
func FromFiber(c *fiber.Ctx) *zerolog.Logger {
	ctx := Logger().With().
		Str("method", c.Method()).
		Str("path", c.Path())
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		ctx = ctx.Str("request_id", rid)
	}
	if uid, ok := c.Locals("user_id").(uint); ok {
		ctx = ctx.Uint("user_id", uid)
	}
	l := ctx.Logger()
	return &l
}
