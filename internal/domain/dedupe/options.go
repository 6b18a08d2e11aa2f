package dedupe

type options struct {
	onShared func()
}

// Option applies a configuration option to a Coalescer.
type Option func(*options)

// WithSharedHook registers a callback run every time a caller receives a
// result produced for another caller.
func WithSharedHook(fn func()) Option {
	return func(o *options) {
		if fn != nil {
			o.onShared = fn
		}
	}
}
