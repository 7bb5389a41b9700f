// Package handoff builds escalation tickets that point a caller at a human
// channel. It never contacts the destination itself; it only assembles the
// record the caller (or an operator console) forwards.
package handoff

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careguide-ai/careguide/internal/triage"
)

// DestKind is the channel type a ticket targets.
type DestKind string

const (
	DestPhone DestKind = "phone"
	DestURL   DestKind = "url"
	DestQueue DestKind = "queue"
)

// Destination is a single human escalation channel.
type Destination struct {
	Kind  DestKind `yaml:"kind" json:"kind"`
	Value string   `yaml:"value" json:"value"`
	Label string   `yaml:"label,omitempty" json:"label,omitempty"`
}

func (d Destination) validate() error {
	switch d.Kind {
	case DestPhone, DestURL, DestQueue:
	default:
		return fmt.Errorf("unknown destination kind %q", d.Kind)
	}
	if strings.TrimSpace(d.Value) == "" {
		return fmt.Errorf("destination %q has an empty value", d.Kind)
	}
	return nil
}

// Ticket is one escalation record.
type Ticket struct {
	ID        string        `json:"ticket_id"`
	Dest      Destination   `json:"destination"`
	Band      triage.RiskBand `json:"band"`
	Reason    string        `json:"reason"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}

// Router picks a destination by band and issues tickets.
type Router struct {
	emergency Destination
	standard  Destination
}

// NewRouter validates both destinations up front so a bad config fails at
// load time, not on the first emergency.
func NewRouter(emergency, standard Destination) (*Router, error) {
	for _, d := range []Destination{emergency, standard} {
		if err := d.validate(); err != nil {
			return nil, &triage.ConfigError{Source: "handoff", Err: err}
		}
	}
	return &Router{emergency: emergency, standard: standard}, nil
}

// DefaultRouter is the compiled-in fallback routing.
func DefaultRouter() *Router {
	return &Router{
		emergency: Destination{Kind: DestPhone, Value: "911", Label: "emergency services"},
		standard:  Destination{Kind: DestQueue, Value: "nurse-line", Label: "nurse advice line"},
	}
}

// Ticket builds an escalation ticket for a verdict. Emergency verdicts route
// to the emergency destination, everything else to the standard one.
func (r *Router) Ticket(v triage.Verdict, reason string) Ticket {
	dest := r.standard
	if v.Band == triage.BandEmergency {
		dest = r.emergency
	}
	return Ticket{
		ID:        uuid.NewString(),
		Dest:      dest,
		Band:      v.Band,
		Reason:    reason,
		Message:   ticketMessage(v, dest),
		CreatedAt: time.Now().UTC(),
	}
}

func ticketMessage(v triage.Verdict, dest Destination) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Triage band %s for request %s.", v.Band, v.RequestID)
	if len(v.RuleIDs) > 0 {
		fmt.Fprintf(&b, " Triggered: %s.", strings.Join(v.RuleIDs, ", "))
	}
	label := dest.Label
	if label == "" {
		label = string(dest.Kind)
	}
	fmt.Fprintf(&b, " Contact %s (%s).", label, dest.Value)
	return b.String()
}
