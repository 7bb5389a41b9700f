// Package tool exposes the pipeline and its sidecar helpers through a single
// closed dispatch surface. The agent framework calls Invoke with a typed
// request; unknown kinds are rejected rather than routed anywhere fuzzy.
package tool

import (
	"context"
	"fmt"

	"github.com/careguide-ai/careguide/internal/cost"
	"github.com/careguide-ai/careguide/internal/handoff"
	"github.com/careguide-ai/careguide/internal/meds"
	"github.com/careguide-ai/careguide/internal/normalize"
	"github.com/careguide-ai/careguide/internal/pipeline"
	"github.com/careguide-ai/careguide/internal/shape"
	"github.com/careguide-ai/careguide/internal/triage"
)

// Kind names one invocable tool.
type Kind string

const (
	KindTriage  Kind = "triage"
	KindWhatIf  Kind = "whatif"
	KindMeds    Kind = "meds"
	KindCost    Kind = "cost"
	KindHandoff Kind = "handoff"
)

// Request is the tagged union handed to Invoke. Exactly the payload matching
// Kind must be set.
type Request struct {
	Kind Kind `json:"kind"`

	Triage  *TriageRequest  `json:"triage,omitempty"`
	WhatIf  *WhatIfRequest  `json:"whatif,omitempty"`
	Meds    *MedsRequest    `json:"meds,omitempty"`
	Cost    *CostRequest    `json:"cost,omitempty"`
	Handoff *HandoffRequest `json:"handoff,omitempty"`
}

type TriageRequest struct {
	Intake   normalize.Intake `json:"intake"`
	Locale   string           `json:"locale,omitempty"`
	Audience string           `json:"audience,omitempty"`
	Tone     string           `json:"tone,omitempty"`
}

type WhatIfRequest struct {
	Question string `json:"question"`
	AgeGroup string `json:"age_group,omitempty"`
	Severity string `json:"severity,omitempty"`
}

type MedsRequest struct {
	Medications []string `json:"medications,omitempty"`
	FileText    string   `json:"file_text,omitempty"`
}

type CostRequest struct {
	HasInsurance bool   `json:"has_insurance"`
	Suspected    string `json:"suspected,omitempty"`
}

type HandoffRequest struct {
	RequestID string   `json:"request_id,omitempty"`
	Band      string   `json:"band"`
	RuleIDs   []string `json:"rule_ids,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// Response mirrors Request: exactly one payload is set, matching the
// request's kind.
type Response struct {
	Kind Kind `json:"kind"`

	Triage  *shape.Response `json:"triage,omitempty"`
	WhatIf  *Assessment     `json:"whatif,omitempty"`
	Meds    *meds.Report    `json:"meds,omitempty"`
	Cost    *cost.Estimate  `json:"cost,omitempty"`
	Handoff *handoff.Ticket `json:"handoff,omitempty"`
}

// Invoker dispatches tool requests against shared, immutable backends.
type Invoker struct {
	pipe   *pipeline.Pipeline
	meds   meds.Table
	costs  cost.Table
	router *handoff.Router
}

// NewInvoker wires the dispatch table. All backends are required.
func NewInvoker(p *pipeline.Pipeline, medTable meds.Table, costTable cost.Table, router *handoff.Router) (*Invoker, error) {
	if p == nil || medTable == nil || costTable == nil || router == nil {
		return nil, fmt.Errorf("invoker requires pipeline, tables, and router")
	}
	return &Invoker{pipe: p, meds: medTable, costs: costTable, router: router}, nil
}

// Invoke routes one request. Unknown kinds and missing payloads fail; they
// are caller bugs, not user input problems.
func (iv *Invoker) Invoke(ctx context.Context, req Request) (Response, error) {
	switch req.Kind {
	case KindTriage:
		if req.Triage == nil {
			return Response{}, fmt.Errorf("triage request missing payload")
		}
		tone := shape.ParseMode(req.Triage.Tone)
		if req.Triage.Tone == "" && req.Triage.Intake.Text != "" {
			tone = shape.AutoMode(req.Triage.Intake.Text)
		}
		resp, _, err := iv.pipe.Run(ctx, req.Triage.Intake, shape.Options{
			Locale:   req.Triage.Locale,
			Audience: shape.Audience(req.Triage.Audience),
			Tone:     tone,
		})
		if err != nil {
			return Response{}, err
		}
		return Response{Kind: KindTriage, Triage: &resp}, nil

	case KindWhatIf:
		if req.WhatIf == nil {
			return Response{}, fmt.Errorf("whatif request missing payload")
		}
		a := ScreenWhatIf(req.WhatIf.Question, req.WhatIf.AgeGroup, req.WhatIf.Severity)
		return Response{Kind: KindWhatIf, WhatIf: &a}, nil

	case KindMeds:
		if req.Meds == nil {
			return Response{}, fmt.Errorf("meds request missing payload")
		}
		report, ok := iv.meds.Check(req.Meds.Medications, req.Meds.FileText)
		if !ok {
			return Response{}, fmt.Errorf("meds request names no medications")
		}
		return Response{Kind: KindMeds, Meds: &report}, nil

	case KindCost:
		if req.Cost == nil {
			return Response{}, fmt.Errorf("cost request missing payload")
		}
		est := iv.costs.ForCondition(req.Cost.HasInsurance, req.Cost.Suspected)
		return Response{Kind: KindCost, Cost: &est}, nil

	case KindHandoff:
		if req.Handoff == nil {
			return Response{}, fmt.Errorf("handoff request missing payload")
		}
		band, err := triage.ParseRiskBand(req.Handoff.Band)
		if err != nil {
			return Response{}, err
		}
		ticket := iv.router.Ticket(triage.Verdict{
			RequestID: req.Handoff.RequestID,
			Band:      band,
			RuleIDs:   req.Handoff.RuleIDs,
		}, req.Handoff.Reason)
		return Response{Kind: KindHandoff, Handoff: &ticket}, nil

	default:
		return Response{}, fmt.Errorf("unknown tool kind %q", req.Kind)
	}
}
