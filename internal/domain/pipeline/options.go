package pipeline

import "github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}
