package middleware

import (
	"strings"
	"time"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowCredentials: true,
	})
}

func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "no-referrer")
		return c.Next()
	}
}

// RateLimiter caps requests per client IP over a sliding window.
func RateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return apperr.New(fiber.StatusTooManyRequests,
				"Too many requests from this IP, please try again later")
		},
	})
}

// GlobalRateLimiter applies the configured limit to the whole API.
func GlobalRateLimiter(cfg *config.Config) fiber.Handler {
	return RateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
}

// AuthRateLimiter is the stricter limit for credential endpoints.
func AuthRateLimiter() fiber.Handler {
	return RateLimiter(20, time.Minute)
}
