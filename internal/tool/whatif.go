package tool

import "strings"

// Screen bands for hypothetical "what if" questions. This is a coarser,
// advisory-only scale than the verdict bands; it exists so a speculative
// question never produces an authoritative-looking triage verdict.
const (
	ScreenLow      = "low"
	ScreenModerate = "moderate"
	ScreenHigh     = "high"
)

// Red-flag phrases that immediately band a what-if question high. Matched as
// lowercase substrings; keep entries lowercase and specific.
var redFlags = []string{
	"chest pain",
	"trouble breathing",
	"shortness of breath",
	"passed out",
	"stroke",
	"severe bleeding",
}

// Assessment is the compact what-if payload. Reasons and actions are capped
// at three entries each to stay readable in chat and voice surfaces.
type Assessment struct {
	Band    string   `json:"band"`
	Reasons []string `json:"reasons"`
	Actions []string `json:"actions"`
}

// ScreenWhatIf places a hypothetical concern into a conservative risk band.
// ageGroup may be "child", "teen", "adult", or "older adult"; severity is the
// self-reported "mild"/"moderate"/"severe". Purely rule-based, no inference.
func ScreenWhatIf(question, ageGroup, severity string) Assessment {
	t := strings.ToLower(question)

	var out Assessment

	switch {
	case containsAny(t, redFlags):
		out.Band = ScreenHigh
		out.Reasons = append(out.Reasons, "Contains emergency symptom keyword(s).")
		out.Actions = append(out.Actions,
			"Seek urgent care now or call emergency services.",
			"Do not delay.")
	case strings.Contains(t, "worsen") || strings.Contains(t, "getting worse"):
		out.Band = ScreenModerate
		out.Reasons = append(out.Reasons, "Mentions worsening pattern.")
		out.Actions = append(out.Actions,
			"Monitor closely for red flags.",
			"Consider contacting a clinician within 24-48h.")
	default:
		out.Band = ScreenLow
		out.Reasons = append(out.Reasons, "No red-flag terms detected.")
		out.Actions = append(out.Actions,
			"Use self-care steps where appropriate.",
			"Reassess if symptoms persist or worsen.")
	}

	if ageGroup == "child" || ageGroup == "older adult" {
		out.Reasons = append(out.Reasons, "Age group: "+ageGroup+" may elevate risk.")
		if out.Band == ScreenLow {
			out.Band = ScreenModerate
		}
	}

	if severity == "severe" && out.Band != ScreenHigh {
		out.Band = ScreenModerate
		out.Reasons = append(out.Reasons, "User-reported severity is severe.")
	}

	out.Reasons = capList(out.Reasons, 3)
	out.Actions = capList(out.Actions, 3)
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func capList(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}
