package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/careguide-ai/careguide/internal/classify"
	"github.com/careguide-ai/careguide/internal/cost"
	"github.com/careguide-ai/careguide/internal/evidence"
	"github.com/careguide-ai/careguide/internal/gate"
	"github.com/careguide-ai/careguide/internal/meds"
	"github.com/careguide-ai/careguide/internal/shape"
	"github.com/careguide-ai/careguide/internal/triage"
)

// Config holds CareGuide configuration.
type Config struct {
	Logging    LoggingConfig            `yaml:"logging"`
	Vocabulary VocabularyConfig         `yaml:"vocabulary"`
	Classifier classify.Config          `yaml:"classifier"`
	Rules      []gate.Rule              `yaml:"rules"`
	Evidence   EvidenceConfig           `yaml:"evidence"`
	Locales    LocalesConfig            `yaml:"locales"`
	Meds       meds.Table               `yaml:"medications"`
	Costs      cost.Table               `yaml:"costs"`
	Handoff    HandoffConfig            `yaml:"handoff"`
	Audit      AuditConfig              `yaml:"audit"`
	Telemetry  TelemetryConfig          `yaml:"telemetry"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug | info | warn | error
	Development bool   `yaml:"development"`
}

// VocabularyConfig overrides the builtin symptom vocabulary when non-empty.
type VocabularyConfig struct {
	Version  string            `yaml:"version"`
	Terms    []string          `yaml:"terms"`
	Synonyms map[string]string `yaml:"synonyms"`
}

type EvidenceConfig struct {
	Cases []evidence.ReferenceCase `yaml:"cases"`
	TopK  int                      `yaml:"top_k"`
	Floor float64                  `yaml:"floor"`
}

// LocalesConfig holds the default language and per-language message
// overrides. Overrides merge over the builtin catalogs key by key.
type LocalesConfig struct {
	Default string                       `yaml:"default"`
	Bundles map[string]map[string]string `yaml:"bundles"`
}

// MergedBundles lays the configured overrides over the builtin catalogs, key
// by key. Languages unknown to the builtin set start from an empty bundle.
// Returns nil when no overrides are configured, which selects the builtins.
func (lc LocalesConfig) MergedBundles() map[string]shape.Bundle {
	if len(lc.Bundles) == 0 {
		return nil
	}
	merged := shape.BuiltinBundles()
	for lang, overrides := range lc.Bundles {
		b, ok := merged[lang]
		if !ok {
			b = shape.Bundle{}
			merged[lang] = b
		}
		for k, v := range overrides {
			b[k] = v
		}
	}
	return merged
}

type HandoffConfig struct {
	Emergency DestinationConfig `yaml:"emergency"`
	Standard  DestinationConfig `yaml:"standard"`
}

type DestinationConfig struct {
	Kind  string `yaml:"kind"` // phone | url | queue
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type AuditConfig struct {
	Sinks     []SinkConfig `yaml:"sinks"`
	QueueSize int          `yaml:"queue_size"`
	Workers   int          `yaml:"workers"`
}

type SinkConfig struct {
	Type    string            `yaml:"type"` // file_jsonl | sqlite | webhook
	Path    string            `yaml:"path"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // grpc | http
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, &triage.ConfigError{Source: path, Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &triage.ConfigError{Source: path, Err: err}
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Classifier.Weights == nil {
		cfg.Classifier = classify.DefaultConfig()
	}
	if cfg.Rules == nil {
		cfg.Rules = gate.BuiltinRules()
	}
	if cfg.Evidence.Cases == nil {
		cfg.Evidence.Cases = evidence.BuiltinCases()
	}
	if cfg.Evidence.TopK <= 0 {
		cfg.Evidence.TopK = 3
	}
	if cfg.Evidence.Floor <= 0 {
		cfg.Evidence.Floor = 0.15
	}
	if cfg.Locales.Default == "" {
		cfg.Locales.Default = "en"
	}
	if cfg.Meds == nil {
		cfg.Meds = meds.BuiltinTable()
	}
	if cfg.Costs == nil {
		cfg.Costs = cost.BuiltinTable()
	}
	if cfg.Handoff.Emergency.Kind == "" {
		cfg.Handoff.Emergency = DestinationConfig{Kind: "phone", Value: "911", Label: "emergency services"}
	}
	if cfg.Handoff.Standard.Kind == "" {
		cfg.Handoff.Standard = DestinationConfig{Kind: "queue", Value: "nurse-line", Label: "nurse advice line"}
	}
	if cfg.Audit.QueueSize <= 0 {
		cfg.Audit.QueueSize = 1000
	}
	if cfg.Audit.Workers <= 0 {
		cfg.Audit.Workers = 1
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
}
