package config

import (
	"bytes"
	"fmt"
	"os"

	yaml "go.yaml.in/yaml/v3"
)

// Config is the optional app config file. Command-line flags win over
// anything set here.
type Config struct {
	// DataPath is the storage file; extension selects the backend
	// (.db sqlite, .json JSON).
	DataPath string `yaml:"data_path"`

	// OwnerID is the default profile used when --owner is not given.
	OwnerID string `yaml:"owner_id"`

	// Timezone is the IANA zone for the watch daemon's cron schedule.
	Timezone string `yaml:"timezone"`

	// RolloverSpec is the cron spec for daily materialization.
	RolloverSpec string `yaml:"rollover_spec"`

	// SweepGraceMin is how long past its scheduled time a pending task
	// may sit before the sweep marks it missed.
	SweepGraceMin int `yaml:"sweep_grace_min"`

	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		DataPath:      defaultDataPath(),
		Timezone:      "Local",
		RolloverSpec:  "5 0 * * *",
		SweepGraceMin: 60,
		LogLevel:      "info",
	}
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pupkeep.db"
	}
	return home + "/.config/pupkeep/pupkeep.db"
}

// Load reads the config file at path, layered over defaults. A missing file
// is not an error; unknown keys are.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
