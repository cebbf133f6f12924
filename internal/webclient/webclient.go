package webclient

import (
	"github.com/raysh454/exploder/internal/interfaces"
	"github.com/raysh454/exploder/internal/model"
)

// Aliases so code inside this package and its consumers can refer to the
// client contract and wire types without importing three packages.
type (
	WebClient = interfaces.WebClient
	Request   = model.Request
	Response  = model.Response
)
