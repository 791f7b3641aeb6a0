package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Target identifies one (spreadsheet source, calendar) pairing.
// Targets are created from the targets file and are immutable for a run.
type Target struct {
	// Label is the human-readable name of the target, also used to key
	// the identity mapping file and the sync-time record.
	Label string `mapstructure:"label" json:"label"`
	// Source is the spreadsheet location: a local path or an s3://bucket/key URL.
	Source string `mapstructure:"source" json:"source"`
	// Calendar is the name of the calendar collection events are synced into.
	Calendar string `mapstructure:"calendar" json:"calendar"`
}

// LoadTargets reads the sync target list from a YAML file.
//
// Expected shape:
//
//	targets:
//	  - label: team-schedule
//	    source: schedules/team.xlsx
//	    calendar: Team
func LoadTargets(path string) ([]Target, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read targets file %s: %w", path, err)
	}

	var file struct {
		Targets []Target `mapstructure:"targets"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse targets file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(file.Targets))
	for i, t := range file.Targets {
		if t.Label == "" || t.Source == "" || t.Calendar == "" {
			return nil, fmt.Errorf("target %d: label, source and calendar are all required", i)
		}
		if _, dup := seen[t.Label]; dup {
			return nil, fmt.Errorf("duplicate target label %q", t.Label)
		}
		seen[t.Label] = struct{}{}
	}

	return file.Targets, nil
}
