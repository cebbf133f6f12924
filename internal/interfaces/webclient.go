package interfaces

import (
	"context"

	"github.com/raysh454/exploder/internal/model"
)

// WebClient abstracts page retrieval so the extraction pipeline can run
// against plain HTTP or a rendering backend interchangeably.
type WebClient interface {
	Do(ctx context.Context, req *model.Request) (*model.Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*model.Response, error)

	Close() error
}
