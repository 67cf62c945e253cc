package procure

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/procure/internal/env"
	"github.com/viant/procure/policy"
	"github.com/viant/procure/service/budget"
	"github.com/viant/procure/service/classifier"
	"github.com/viant/procure/service/routing"
	"github.com/viant/procure/tracing"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the service configuration.
// Sections left out of a loaded file keep their DefaultConfig values.
type Config struct {
	Routing    *routing.Config  `json:"routing" yaml:"routing"`
	Budget     *budget.Config   `json:"budget" yaml:"budget"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Policy     *policy.Config   `json:"policy,omitempty" yaml:"policy,omitempty"`
	// FixtureURL is loaded and seeded by New when set.
	FixtureURL string         `json:"fixtureURL,omitempty" yaml:"fixtureURL,omitempty"`
	Storage    StorageConfig  `json:"storage" yaml:"storage"`
	Logging    LoggingConfig  `json:"logging" yaml:"logging"`
	Tracing    tracing.Config `json:"tracing" yaml:"tracing"`
}

// ClassifierConfig selects the text classifier.
type ClassifierConfig struct {
	Mode     string             `json:"mode,omitempty" yaml:"mode,omitempty"`
	Keywords *classifier.Config `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// StorageConfig switches stores to the filesystem; empty paths keep the
// in-memory stores.  NotifyCapacity bounds the in-memory queue, dropping
// the oldest events first; 0 leaves it unbounded.
type StorageConfig struct {
	RequestPath    string `json:"requestPath,omitempty" yaml:"requestPath,omitempty"`
	NotifyPath     string `json:"notifyPath,omitempty" yaml:"notifyPath,omitempty"`
	NotifyCapacity int    `json:"notifyCapacity,omitempty" yaml:"notifyCapacity,omitempty"`
}

// LoggingConfig holds the slog level name (debug, info, warn, error).
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// SlogLevel parses Level, defaulting to info.
func (c LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// DefaultNotifyCapacity bounds the default in-memory notification queue.
const DefaultNotifyCapacity = 1024

// DefaultConfig returns the standard thresholds and keyword lists.
func DefaultConfig() *Config {
	return &Config{
		Routing:    routing.DefaultConfig(),
		Budget:     budget.DefaultConfig(),
		Classifier: ClassifierConfig{Mode: classifier.ModeKeyword, Keywords: classifier.DefaultConfig()},
		Storage:    StorageConfig{NotifyCapacity: DefaultNotifyCapacity},
		Logging:    LoggingConfig{Level: "info"},
		Tracing:    tracing.Config{ServiceName: "procure"},
	}
}

// Validate returns the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Routing != nil {
		if err := c.Routing.Validate(); err != nil {
			return err
		}
	}
	if c.Budget != nil {
		if err := c.Budget.Validate(); err != nil {
			return err
		}
	}
	switch c.Classifier.Mode {
	case "", classifier.ModeKeyword, classifier.ModeToken:
	default:
		return fmt.Errorf("classifier.mode: unsupported %q", c.Classifier.Mode)
	}
	if c.Storage.NotifyCapacity < 0 {
		return fmt.Errorf("storage.notifyCapacity must be >= 0")
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads a YAML configuration from URL, expanding ${env.KEY}
// references before decoding it over DefaultConfig.
func LoadConfig(ctx context.Context, fs afs.Service, URL string, options ...storage.Option) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err := yaml.Unmarshal([]byte(env.Expand(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
