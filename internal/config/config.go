// Package config loads the mnemo deck configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/engine"
	"github.com/mnemo-app/mnemo/internal/scheduler"
)

// Config is the deck configuration.
// Zero/absent values fall back to defaults; see field comments.
type Config struct {
	Database string `yaml:"database"` // empty → "mnemo.db"

	// Daily quotas. Negative means no limit; zero falls back to the
	// defaults (20 new, 200 reviews).
	NewPerDay     int `yaml:"new_per_day"`
	ReviewsPerDay int `yaml:"reviews_per_day"`

	// Sibling arrangement policy: standard, disperse or bury.
	// Empty → standard.
	SiblingPolicy string `yaml:"sibling_policy"`

	// Default review scope. Empty kind → whole collection.
	Scope ScopeConfig `yaml:"scope"`

	// Scheduler steps, as Go durations ("1m", "10m"). Nil → delegate
	// defaults.
	LearningSteps   []string `yaml:"learning_steps"`
	RelearningSteps []string `yaml:"relearning_steps"`
}

// ScopeConfig selects the default review scope.
type ScopeConfig struct {
	Kind  string `yaml:"kind"` // "", "collection", "folder", "document", "group"
	Path  string `yaml:"path"`
	Group string `yaml:"group"`
}

// Load reads and validates a config file. A missing path yields the
// zero config (all defaults).
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.Policy(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.EngineScope(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DatabasePath returns the SQLite path, defaulted.
func (c Config) DatabasePath() string {
	if c.Database == "" {
		return "mnemo.db"
	}
	return c.Database
}

// Limits returns the engine quota limits, defaulted. Negative YAML
// values map to engine.Unlimited.
func (c Config) Limits() engine.Limits {
	lim := engine.Limits{NewPerDay: c.NewPerDay, ReviewsPerDay: c.ReviewsPerDay}
	if lim.NewPerDay == 0 {
		lim.NewPerDay = 20
	} else if lim.NewPerDay < 0 {
		lim.NewPerDay = engine.Unlimited
	}
	if lim.ReviewsPerDay == 0 {
		lim.ReviewsPerDay = 200
	} else if lim.ReviewsPerDay < 0 {
		lim.ReviewsPerDay = engine.Unlimited
	}
	return lim
}

// Policy returns the configured sibling policy.
func (c Config) Policy() (engine.SiblingPolicy, error) {
	return engine.ParsePolicy(c.SiblingPolicy)
}

// EngineScope returns the configured default scope.
func (c Config) EngineScope() (card.Scope, error) {
	switch c.Scope.Kind {
	case "", "collection":
		return card.WholeCollection(), nil
	case "folder":
		sc := card.FolderScope(c.Scope.Path)
		return sc, sc.Validate()
	case "document":
		sc := card.DocumentScope(c.Scope.Path)
		return sc, sc.Validate()
	case "group":
		sc := card.GroupScope(c.Scope.Group)
		return sc, sc.Validate()
	default:
		return card.Scope{}, fmt.Errorf("config: unknown scope kind %q", c.Scope.Kind)
	}
}

// SchedulerConfig returns the delegate configuration with parsed steps.
func (c Config) SchedulerConfig() (scheduler.Config, error) {
	var cfg scheduler.Config
	var err error
	if cfg.LearningSteps, err = parseSteps(c.LearningSteps); err != nil {
		return scheduler.Config{}, fmt.Errorf("config: learning_steps: %w", err)
	}
	if cfg.RelearningSteps, err = parseSteps(c.RelearningSteps); err != nil {
		return scheduler.Config{}, fmt.Errorf("config: relearning_steps: %w", err)
	}
	return cfg, nil
}

func parseSteps(steps []string) ([]time.Duration, error) {
	if steps == nil {
		return nil, nil
	}
	out := make([]time.Duration, 0, len(steps))
	for _, s := range steps {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
