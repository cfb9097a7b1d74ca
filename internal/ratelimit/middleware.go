package ratelimit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// Recorder counts rejected requests.
type Recorder interface {
	RecordRateLimited()
}

// Middleware limits requests per client IP. Store failures admit the request.
func Middleware(limiter *Limiter, logger *zap.Logger, recorder Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := limiter.Check(c.UserContext(), c.IP())
		if err != nil {
			logger.Warn("rate limit check failed", zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if recorder != nil {
				recorder.RecordRateLimited()
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(result.RetryAfter))
			return apperrors.NewRateLimited(result.RetryAfter)
		}
		return c.Next()
	}
}
