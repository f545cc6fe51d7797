// Package ratelimit gates requests before they reach the completion
// provider. Two interchangeable backends exist: an in-process sliding
// window and a Redis-backed fixed window shared across instances.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"resumeai/resume-service/internal/models"
)

// Limiter admits or rejects one request for the given bucket key.
// A rejection is a *LimitExceededError; any other error is a bug in the
// backend, not a rate-limit decision.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// LimitExceededError carries how long the client should wait before the
// window opens again.
type LimitExceededError struct {
	Limit      int
	RetryAfter time.Duration
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded: max %d requests, retry after %s", e.Limit, e.RetryAfter)
}

// ClientIdentity derives the rate-limit bucket identity for a request:
// first hop of X-Forwarded-For when present, then the direct peer
// address, then a shared "unknown" bucket.
func ClientIdentity(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}

// Middleware wraps a Limiter as a fiber handler. Buckets are keyed by
// client identity plus route so limits apply per endpoint.
func Middleware(limiter Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := ClientIdentity(c)
		key := identity + ":" + c.Path()

		if err := limiter.Allow(c.UserContext(), key); err != nil {
			if limitErr, ok := err.(*LimitExceededError); ok {
				retryAfter := int(limitErr.RetryAfter.Seconds())
				if retryAfter < 0 {
					retryAfter = 0
				}
				return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
					Error:      "Rate limit exceeded",
					Message:    fmt.Sprintf("Maximum %d requests allowed per window", limitErr.Limit),
					RetryAfter: retryAfter,
				})
			}
			return err
		}

		return c.Next()
	}
}
