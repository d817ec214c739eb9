// Package logger logging estructurado sobre zerolog, con un logger por componente y por petición.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string    // development: consola legible; cualquier otro: JSON
	Level   string    // trace, debug, info, warn, error (por defecto info)
	Service string    // se añade como campo "service" si no está vacío
	Output  io.Writer // por defecto os.Stdout
}

// Logger envuelve un zerolog.Logger para inyectarlo en casos de uso y adaptadores.
type Logger struct {
	zl zerolog.Logger
}

type ctxKey struct{}

// New crea el logger raíz y lo instala como logger global de zerolog.
func New(cfg Config) *Logger {
	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zc := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.Service != "" {
		zc = zc.Str("service", cfg.Service)
	}
	zl := zc.Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

// Nop logger que descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Named sublogger de un componente ("purchase", "ws", "http"...).
func (l *Logger) Named(component string) *Logger {
	return l.WithStr("component", component)
}

// WithStr sublogger con un campo fijo más.
func (l *Logger) WithStr(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// IntoContext guarda el logger en ctx para que las capas inferiores registren con sus campos.
func (l *Logger) IntoContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext devuelve el logger guardado con IntoContext, o fallback (Nop si es nil).
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return Nop()
}
