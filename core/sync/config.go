package sync

// Config holds configuration for the sync engine and its durable state.
type Config struct {
	// TargetsFile is the path to the YAML file listing sync targets.
	TargetsFile string `mapstructure:"targets_file" default:"targets.yaml"`
	// StateDir is the directory holding identity mappings and sync times.
	StateDir string `mapstructure:"state_dir" default:"."`
	// Backend selects the calendar backend (ics, sqlite or memory).
	Backend string `mapstructure:"backend" default:"ics"`
	// BackendPath is the ICS directory or SQLite database file, depending on Backend.
	BackendPath string `mapstructure:"backend_path" default:"calendars"`
}

const (
	BackendICS    = "ics"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// IsValidBackend checks if the configured calendar backend is valid.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendICS, BackendSQLite, BackendMemory:
		return true
	default:
		return false
	}
}
