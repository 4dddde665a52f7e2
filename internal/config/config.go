package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/tmercier/roomplan/pkg/timetable"
)

// RecurringSession defines a weekly (or otherwise recurring) session to be
// expanded into dated sessions between the term bounds
type RecurringSession struct {
	RRule   string `yaml:"rrule" validate:"required"`
	Start   string `yaml:"start" validate:"required"`
	End     string `yaml:"end" validate:"required"`
	Cohort  string `yaml:"cohort" validate:"required"`
	Subject string `yaml:"subject" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	PlanYear          string             `yaml:"planYear" validate:"required"`
	DatabaseURL       string             `yaml:"databaseURL" validate:"required"`
	RoomsFile         string             `yaml:"roomsFile" validate:"required"`
	TermStart         string             `yaml:"termStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TermEnd           string             `yaml:"termEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TimetableSheetID  string             `yaml:"timetableSheetID,omitempty"`
	RecurringSessions []RecurringSession `yaml:"recurringSessions,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an environment
// suffix. For example, env="test" will look for "roomplan_config.test.yaml".
// The file is searched in the current directory first, then in the user's
// home directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the rrule and clock syntax of
// each recurring session, and the term bounds they require
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if len(cfg.RecurringSessions) > 0 && (cfg.TermStart == "" || cfg.TermEnd == "") {
		return fmt.Errorf("recurringSessions require termStart and termEnd")
	}

	for i, rec := range cfg.RecurringSessions {
		if _, err := rrule.StrToRRule(rec.RRule); err != nil {
			return fmt.Errorf("invalid rrule in recurringSessions[%d]: %w", i, err)
		}
		if _, err := timetable.ParseClock(rec.Start); err != nil {
			return fmt.Errorf("invalid start in recurringSessions[%d]: %w", i, err)
		}
		if _, err := timetable.ParseClock(rec.End); err != nil {
			return fmt.Errorf("invalid end in recurringSessions[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for roomplan_config.yaml in the current directory
// and the home directory, with an optional env suffix
func findConfigFile(env string) (string, error) {
	configFileName := "roomplan_config.yaml"
	if env != "" {
		configFileName = "roomplan_config." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
