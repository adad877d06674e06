package telegram

import (
	"time"

	"channelbot/core/config"
	"channelbot/core/telegram/middleware"
)

// DefaultMiddlewares returns the standard chain: panic recovery first, then
// per-user rate limiting (when enabled), then update logging.
func DefaultMiddlewares(cfg *config.Config) []Middleware {
	chain := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil && cfg.RateLimit.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, kind := range cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		chain = append(chain, Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  exclude,
			}),
		})
	}

	chain = append(chain, Middleware{Name: "logger", Use: middleware.LoggerMiddleware})
	return chain
}
