package triage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RiskBand is the ordered severity classification for a triage verdict.
// Bands compare with the usual integer ordering: Emergency > High > Moderate > Low.
type RiskBand int

const (
	BandLow RiskBand = iota
	BandModerate
	BandHigh
	BandEmergency
)

var bandNames = [...]string{"low", "moderate", "high", "emergency"}

func (b RiskBand) String() string {
	if b < BandLow || b > BandEmergency {
		return fmt.Sprintf("riskband(%d)", int(b))
	}
	return bandNames[b]
}

// Valid reports whether b is one of the four defined bands.
func (b RiskBand) Valid() bool {
	return b >= BandLow && b <= BandEmergency
}

// ParseRiskBand converts a lowercase band name into a RiskBand.
func ParseRiskBand(s string) (RiskBand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return BandLow, nil
	case "moderate":
		return BandModerate, nil
	case "high":
		return BandHigh, nil
	case "emergency":
		return BandEmergency, nil
	}
	return BandLow, fmt.Errorf("unknown risk band %q", s)
}

// MaxBand returns the higher of two bands.
func MaxBand(a, b RiskBand) RiskBand {
	if a > b {
		return a
	}
	return b
}

func (b RiskBand) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *RiskBand) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRiskBand(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b RiskBand) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b *RiskBand) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseRiskBand(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
