package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/careguide-ai/careguide/internal/gate"
	"github.com/careguide-ai/careguide/internal/triage"
)

// rulesSchema constrains the escalation rule table beyond what the YAML
// decoder checks: id shape, band names, vital comparison operators.
const rulesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "min_band"],
    "properties": {
      "id": {"type": "string", "pattern": "^[a-z][a-z0-9_]*$"},
      "category": {"type": "string"},
      "advisory_id": {"type": "string"},
      "required_tags": {"type": "array", "items": {"type": "string"}},
      "min_age": {"type": "integer", "minimum": 0},
      "max_age": {"type": "integer", "minimum": 0},
      "min_duration_hours": {"type": "number", "minimum": 0},
      "severity": {"enum": ["", "mild", "moderate", "severe"]},
      "vitals": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["name", "op", "value"],
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "op": {"enum": ["gte", "lte"]},
            "value": {"type": "number"}
          }
        }
      },
      "match_empty": {"type": "boolean"},
      "min_band": {"enum": ["low", "moderate", "high", "emergency"]}
    }
  }
}`

var compiledRulesSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(rulesSchema))
	if err != nil {
		panic("rules schema does not compile: " + err.Error())
	}
	compiledRulesSchema = schema
}

// validateRulesSchema checks the rule table against the embedded JSON schema.
func validateRulesSchema(rules []gate.Rule) error {
	doc, err := json.Marshal(rules)
	if err != nil {
		return &triage.ConfigError{Source: "rules", Err: err}
	}
	result, err := compiledRulesSchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &triage.ConfigError{Source: "rules", Err: err}
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &triage.ConfigError{
			Source: "rules",
			Err:    fmt.Errorf("schema violations: %s", strings.Join(msgs, "; ")),
		}
	}
	return nil
}
