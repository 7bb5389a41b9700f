package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/careguide-ai/careguide/internal/gate"
	"github.com/careguide-ai/careguide/internal/shape"
	"github.com/careguide-ai/careguide/internal/triage"
	"github.com/careguide-ai/careguide/internal/vocab"
)

// Validate checks the loaded config for required fields and safe values.
// The first violation found is returned as a ConfigError.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if err := validateLogging(cfg.Logging); err != nil {
		return &triage.ConfigError{Source: "logging", Err: err}
	}

	if len(cfg.Vocabulary.Terms) > 0 {
		if _, err := vocab.New(cfg.Vocabulary.Version, cfg.Vocabulary.Terms, cfg.Vocabulary.Synonyms); err != nil {
			return err
		}
	} else if len(cfg.Vocabulary.Synonyms) > 0 {
		return &triage.ConfigError{
			Source: "vocabulary",
			Err:    errors.New("synonyms given without terms"),
		}
	}

	if err := cfg.Classifier.Validate(); err != nil {
		return err
	}

	if err := validateRulesSchema(cfg.Rules); err != nil {
		return err
	}
	if _, err := gate.New(cfg.Rules); err != nil {
		return err
	}

	if cfg.Evidence.Floor > 1 {
		return &triage.ConfigError{
			Source: "evidence",
			Err:    fmt.Errorf("similarity floor %v exceeds 1", cfg.Evidence.Floor),
		}
	}

	if _, err := shape.New(cfg.Locales.MergedBundles(), cfg.Locales.Default); err != nil {
		return err
	}

	if err := cfg.Meds.Validate(); err != nil {
		return err
	}
	if err := cfg.Costs.Validate(); err != nil {
		return err
	}

	for _, d := range []DestinationConfig{cfg.Handoff.Emergency, cfg.Handoff.Standard} {
		if err := validateDestination(d); err != nil {
			return &triage.ConfigError{Source: "handoff", Err: err}
		}
	}

	if err := validateAudit(cfg.Audit); err != nil {
		return &triage.ConfigError{Source: "audit", Err: err}
	}

	if err := validateTelemetry(cfg.Telemetry); err != nil {
		return &triage.ConfigError{Source: "telemetry", Err: err}
	}

	return nil
}

func validateLogging(l LoggingConfig) error {
	if l.Level == "" {
		return nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("unknown log level %q", l.Level)
	}
	return nil
}

func validateDestination(d DestinationConfig) error {
	switch d.Kind {
	case "phone", "queue":
		if strings.TrimSpace(d.Value) == "" {
			return fmt.Errorf("%s destination missing value", d.Kind)
		}
	case "url":
		u, err := url.Parse(d.Value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("destination has invalid url %q", d.Value)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("destination url must be http or https")
		}
	default:
		return fmt.Errorf("unknown destination kind %q", d.Kind)
	}
	return nil
}

func validateAudit(a AuditConfig) error {
	for i, s := range a.Sinks {
		switch strings.ToLower(strings.TrimSpace(s.Type)) {
		case "file_jsonl":
			if strings.TrimSpace(s.Path) == "" {
				return fmt.Errorf("sink %d (file_jsonl) missing path", i)
			}
		case "sqlite":
			if strings.TrimSpace(s.Path) == "" {
				return fmt.Errorf("sink %d (sqlite) missing path", i)
			}
		case "webhook":
			u, err := url.Parse(s.URL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("sink %d (webhook) has invalid url", i)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("sink %d (webhook) url must be http or https", i)
			}
		default:
			return fmt.Errorf("sink %d has unknown type %q", i, s.Type)
		}
	}
	return nil
}

func validateTelemetry(t TelemetryConfig) error {
	if !t.Enabled {
		return nil
	}
	if strings.TrimSpace(t.Endpoint) == "" {
		return errors.New("endpoint must be set when telemetry is enabled")
	}
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		return fmt.Errorf("unknown protocol %q", t.Protocol)
	}
	return nil
}
