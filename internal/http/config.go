package http

import (
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/importers"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	BookReader exporters.BookReader
	Pipeline   *importers.Pipeline
	Database   *database.Database

	// ImportOptions are the configured defaults; query parameters of the
	// clippings endpoints override them per request.
	ImportOptions importers.Options

	// Import history (optional)
	SessionStore SessionReader

	// Tag and highlight lookups (optional)
	TagStore TagStore

	// Application info
	Version string
}
