package log

import "sync"

// Option transforms a logger configuration and returns the result.
type Option func(config) config

// apply folds opts over cfg in order.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// setting lifts a field mutation into an [Option], holding the config's
// write lock for the duration of the mutation. A config that has never
// been locked gets its mutex here.
func setting(mutate func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		mutate(&c)

		return c
	}
}
