package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./clippings.db"

	// DefaultKindleSyncSchedule re-imports the clippings file every 30 minutes
	DefaultKindleSyncSchedule = "*/30 * * * *"
)
