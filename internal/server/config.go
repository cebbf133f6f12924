package server

import (
	"github.com/raysh454/exploder/internal/app"
	"github.com/raysh454/exploder/internal/logging"
)

type Config struct {
	// AppConfig carries the component configuration. Nil gets defaults.
	AppConfig *app.Config

	// Logger is the root logger. Nil gets a stdout JSON logger.
	Logger logging.Logger
}
