package turn

import "github.com/rs/zerolog"

type config struct {
	log        zerolog.Logger
	host       Host
	maxRenders int
	onError    func(error)
}

type Option func(*config)

// WithLogger sets the logger used for mount, unmount and drain events.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

func WithHost(host Host) Option {
	return func(c *config) {
		if host != nil {
			c.host = host
		}
	}
}

// WithMaxRenders caps how many times one consumer may be evaluated within a
// single drain. Non-positive values fall back to scheduler.DefaultMaxRenders.
func WithMaxRenders(n int) Option {
	return func(c *config) {
		c.maxRenders = n
	}
}

// WithErrorHandler receives drain errors that have no caller to return to,
// such as a write made outside of Turn.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}
