package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// Config is the minimal set of options required for constructing a WebClient.
type Config struct {
	// Client selects the backend. Empty defaults to nethttp.
	Client Client

	// Timeout bounds a single page fetch. Zero falls back to 30s.
	Timeout time.Duration

	// UserAgent identifies this client to upstream servers. Applied to every
	// request that does not already carry one.
	UserAgent string

	// IdleAfter is how long the chromedp backend waits for the network to go
	// quiet before snapshotting the rendered page.
	IdleAfter time.Duration
}

// DefaultUserAgent identifies the exploder to upstream hosts.
const DefaultUserAgent = "exploder/0.1 (+https://github.com/raysh454/exploder)"

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Client:    ClientNetHTTP,
		Timeout:   30 * time.Second,
		UserAgent: DefaultUserAgent,
		IdleAfter: 2 * time.Second,
	}
}
