package demoserver

type Config struct {
	// Port the demo server listens on.
	Port int
}

// DefaultConfig returns the demo server defaults.
func DefaultConfig() Config {
	return Config{Port: 9999}
}
