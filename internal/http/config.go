package http

import (
	"github.com/mrlokans/transcripts/internal/database"
	"github.com/mrlokans/transcripts/internal/services"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database
	Runs     RunStore
	Runner   services.Runner

	// Queue is optional. Without it conversions run inside the request.
	Queue TaskQueue

	Version string
}
