package cache

import "github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"

// Option configures a Local cache.
type Option func(*Local)

// WithPersister writes the cache contents through p after every Put.
func WithPersister(p Persister) Option {
	return func(c *Local) { c.persister = p }
}

// WithLogger sets the cache logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Local) {
		if l != nil {
			c.logger = l
		}
	}
}
