package shape

import "strings"

// Mode selects the rendering tone for caller-facing text. The set is closed;
// unknown modes fall back to ModeNeutral.
type Mode string

const (
	ModeNeutral       Mode = "neutral"
	ModeReassuring    Mode = "reassuring"
	ModeConcise       Mode = "concise"
	ModeChildFriendly Mode = "child_friendly"
)

// AutoMode picks a tone mode from the sentiment of the user's own words:
// stressed text gets the reassuring register, everything else stays neutral.
func AutoMode(text string) Mode {
	label, _ := ScreenSentiment(text)
	if label == SentimentStressed || label == SentimentConcerned {
		return ModeReassuring
	}
	return ModeNeutral
}

// ParseMode returns the mode for s, defaulting to neutral.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeReassuring:
		return ModeReassuring
	case ModeConcise:
		return ModeConcise
	case ModeChildFriendly:
		return ModeChildFriendly
	default:
		return ModeNeutral
	}
}

// ToneProfile carries rendering hints the downstream model or UI applies
// when composing long answers. The profiles themselves are static data.
type ToneProfile struct {
	Mode       Mode     `json:"mode"`
	Voice      string   `json:"voice"`
	Guidelines []string `json:"guidelines"`
}

func toneProfile(m Mode) ToneProfile {
	switch m {
	case ModeReassuring:
		return ToneProfile{
			Mode:  m,
			Voice: "warm, validating, gentle pace",
			Guidelines: []string{
				"Acknowledge feelings once up front.",
				"Use short sentences, avoid medical jargon.",
				"Offer one to three concrete next steps.",
			},
		}
	case ModeConcise:
		return ToneProfile{
			Mode:  m,
			Voice: "direct, bullet-first",
			Guidelines: []string{
				"Use three to five bullets max.",
				"Keep sentences under 14 words.",
				"No repeated info.",
			},
		}
	case ModeChildFriendly:
		return ToneProfile{
			Mode:  m,
			Voice: "simple, friendly, plain words",
			Guidelines: []string{
				"Avoid scary words.",
				"Use examples from daily life.",
				"One idea per sentence.",
			},
		}
	default:
		return ToneProfile{Mode: ModeNeutral, Voice: "neutral", Guidelines: []string{"Default style."}}
	}
}

// Sentiment labels produced by ScreenSentiment.
const (
	SentimentCalm      = "calm"
	SentimentConcerned = "concerned"
	SentimentStressed  = "stressed"
)

var (
	strongSignals = []string{"scared", "worried", "anxious", "panic", "chest pain", "shortness of breath", "urgent"}
	mildSignals   = []string{"confused", "lost", "don't know", "help"}
	calmSignals   = []string{"thank you", "thanks", "ok", "fine"}
)

// ScreenSentiment is a tiny deterministic classifier over user text, used to
// auto-select a tone mode between turns. It is keyword counting, nothing
// more.
func ScreenSentiment(text string) (label string, signals []string) {
	t := strings.ToLower(text)
	score := 0
	for _, w := range strongSignals {
		if strings.Contains(t, w) {
			score += 2
			signals = append(signals, w)
		}
	}
	for _, w := range mildSignals {
		if strings.Contains(t, w) {
			score++
			signals = append(signals, w)
		}
	}
	for _, w := range calmSignals {
		if strings.Contains(t, w) {
			score--
			signals = append(signals, w)
		}
	}
	switch {
	case score >= 2:
		return SentimentStressed, signals
	case score == 1:
		return SentimentConcerned, signals
	default:
		return SentimentCalm, signals
	}
}
