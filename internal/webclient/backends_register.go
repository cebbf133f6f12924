package webclient

import (
	"github.com/raysh454/exploder/internal/interfaces"
)

// RegisterDefaultBackends registers the default nethttp and chromedp backends.
// Call this from init() or early in main() to make backends available to NewWebClient.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})

	RegisterBackend(string(ClientChromedp), func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
		return NewChromeDPClient(cfg, logger)
	})
}
