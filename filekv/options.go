package filekv

import "github.com/filekv/go-filekv/internal"

type Option func(*internal.Config)

func WithHost(host string) Option {
	return func(c *internal.Config) {
		c.Host = host
	}
}

func WithPort(port int) Option {
	return func(c *internal.Config) {
		c.Port = port
	}
}

// WithDialRetries retries the initial dial up to n times with a backoff
// between attempts. Useful when the daemon is still coming up.
func WithDialRetries(n int) Option {
	return func(c *internal.Config) {
		c.DialRetries = n
	}
}
