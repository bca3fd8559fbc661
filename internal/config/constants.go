package config

// Default locations
const (
	// DefaultDatabasePath is the default path for the run ledger database
	DefaultDatabasePath = "./transcripts.db"

	// DefaultDataDir is where input archives are read from
	DefaultDataDir = "./data"

	// DefaultOutputDir is where transcripts and bundles are written
	DefaultOutputDir = "./output"

	// DefaultWatchSchedule converts new input every 15 minutes
	DefaultWatchSchedule = "*/15 * * * *"

	// DefaultWatchSources lists every supported source
	DefaultWatchSources = "chat,sms,bundle"
)
