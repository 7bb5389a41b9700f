// Package cost produces rough out-of-pocket estimates from a static rate
// table. Figures are illustrative ranges, not quotes; the venue suggestion
// is rule-based on the suspected condition text.
package cost

import (
	"strings"

	"github.com/careguide-ai/careguide/internal/triage"
)

// Plan is the payer bucket a rate applies to.
type Plan string

const (
	PlanInsured Plan = "insured"
	PlanSelfPay Plan = "self_pay"
)

// Rates holds a typical price range per plan, as display strings.
type Rates struct {
	Insured string `yaml:"insured" json:"insured"`
	SelfPay string `yaml:"self_pay" json:"self_pay"`
}

func (r Rates) forPlan(p Plan) string {
	if p == PlanInsured {
		return r.Insured
	}
	return r.SelfPay
}

// Table maps line items to rates. Loaded once, read-only.
type Table map[string]Rates

// BuiltinTable is the compiled-in fallback rate card.
func BuiltinTable() Table {
	return Table{
		"clinic_visit": {Insured: "$20-$60 copay", SelfPay: "$80-$180"},
		"urgent_care":  {Insured: "$40-$90 copay", SelfPay: "$140-$280"},
		"flu_test":     {Insured: "$0-$30", SelfPay: "$30-$90"},
		"strep_test":   {Insured: "$0-$30", SelfPay: "$25-$75"},
	}
}

// Validate checks the table for the items the estimator depends on.
func (t Table) Validate() error {
	for _, required := range []string{"clinic_visit", "urgent_care"} {
		if _, ok := t[required]; !ok {
			return &triage.ConfigError{Source: "costs", Err: missingItemError(required)}
		}
	}
	return nil
}

type missingItemError string

func (e missingItemError) Error() string {
	return "cost table is missing required item " + string(e)
}

// Item is one estimated line item.
type Item struct {
	Name    string `json:"item"`
	Typical string `json:"typical"`
}

// Estimate is the caller-facing cost summary.
type Estimate struct {
	Plan         Plan   `json:"insurance"`
	Venue        string `json:"suggested_venue"`
	VenueTypical string `json:"venue_typical"`
	Items        []Item `json:"items"`
}

// ForCondition estimates costs for a suspected condition. Severe wording or
// chest pain routes the venue suggestion to urgent care.
func (t Table) ForCondition(hasInsurance bool, suspected string) Estimate {
	plan := PlanSelfPay
	if hasInsurance {
		plan = PlanInsured
	}
	s := strings.ToLower(suspected)

	items := []string{"clinic_visit"}
	if strings.Contains(s, "flu") {
		items = append(items, "flu_test")
	}
	if strings.Contains(s, "strep") || strings.Contains(s, "sore throat") {
		items = append(items, "strep_test")
	}

	venueItem := "clinic_visit"
	venue := "clinic"
	if strings.Contains(s, "severe") || strings.Contains(s, "chest pain") {
		venueItem = "urgent_care"
		venue = "urgent care"
	}

	est := Estimate{Plan: plan, Venue: venue, VenueTypical: t[venueItem].forPlan(plan)}
	for _, it := range items {
		if rates, ok := t[it]; ok {
			est.Items = append(est.Items, Item{
				Name:    strings.ReplaceAll(it, "_", " "),
				Typical: rates.forPlan(plan),
			})
		}
	}
	return est
}
