package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

// RequestLogger registra cada petición terminada con su request id y duración.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID, _ := c.Locals("requestid").(string)
		reqLog := log.WithStr("request_id", requestID)
		c.SetUserContext(reqLog.IntoContext(c.UserContext()))
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// el ErrorHandler todavía no escribió la respuesta
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("petición completada")
		return err
	}
}

// HTTPObserver destino de las métricas HTTP.
type HTTPObserver interface {
	ObserveHTTP(method, path string, status int, elapsed time.Duration)
	InFlight(delta float64)
}

// MetricsMiddleware mide cada petición usando la ruta plantilla como label.
func MetricsMiddleware(obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		obs.InFlight(1)
		defer obs.InFlight(-1)

		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		path := c.Route().Path
		if status == fiber.StatusNotFound && path == "/" {
			path = "unmatched"
		}
		obs.ObserveHTTP(c.Method(), path, status, time.Since(start))
		return err
	}
}

// IPRateLimiter un token bucket por IP de cliente.
type IPRateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
	ttl      time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter rps peticiones por segundo con ráfagas de burst. rps <= 0 desactiva el límite.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consume un token del bucket de ip.
func (rl *IPRateLimiter) Allow(ip string) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[ip]
	if !ok {
		rl.evictLocked(now)
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evictLocked descarta visitantes inactivos al crear uno nuevo para acotar el mapa.
func (rl *IPRateLimiter) evictLocked(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
		}
	}
}

// Middleware responde 429 cuando la IP agotó su cupo.
func (rl *IPRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.Allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:      "RATE_LIMIT_EXCEEDED",
				Message:   "demasiadas peticiones, intenta más tarde",
				Retryable: true,
			})
		}
		return c.Next()
	}
}
