package cost

import "testing"

func TestForCondition(t *testing.T) {
	table := BuiltinTable()
	cases := []struct {
		name      string
		insured   bool
		suspected string
		wantVenue string
		wantItems int
	}{
		{"plain visit self pay", false, "", "clinic", 1},
		{"flu adds test", true, "suspected flu", "clinic", 2},
		{"sore throat adds strep test", true, "sore throat", "clinic", 2},
		{"severe routes to urgent care", false, "severe chest pain", "urgent care", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			est := table.ForCondition(tc.insured, tc.suspected)
			if est.Venue != tc.wantVenue {
				t.Fatalf("venue = %q, want %q", est.Venue, tc.wantVenue)
			}
			if len(est.Items) != tc.wantItems {
				t.Fatalf("items = %+v, want %d", est.Items, tc.wantItems)
			}
			wantPlan := PlanSelfPay
			if tc.insured {
				wantPlan = PlanInsured
			}
			if est.Plan != wantPlan {
				t.Fatalf("plan = %q, want %q", est.Plan, wantPlan)
			}
			if est.VenueTypical == "" {
				t.Fatal("venue typical rate missing")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	broken := Table{"clinic_visit": {Insured: "$1", SelfPay: "$2"}}
	if err := broken.Validate(); err == nil {
		t.Fatal("expected error for missing urgent_care")
	}
	if err := BuiltinTable().Validate(); err != nil {
		t.Fatalf("builtin table invalid: %v", err)
	}
}
