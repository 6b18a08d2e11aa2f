package reveal

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithMessages replaces the thinking messages. An empty list skips thinking.
func WithMessages(msgs []string) Option {
	return func(c *Controller) {
		c.messages = append([]string(nil), msgs...)
	}
}

// WithFinishHook registers a callback run exactly once, when the last result
// is revealed.
func WithFinishHook(fn func(standings []Standing)) Option {
	return func(c *Controller) {
		c.onFinish = fn
	}
}
