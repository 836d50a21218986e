package nlu

import "strings"

// Recognition is the combined outcome of recognizing one utterance: the
// canonical intent, its score, extracted slots, and the derived domain.
// Produced and consumed within a single request; never persisted.
type Recognition struct {
	Intent string            `json:"intent"`
	Score  float64           `json:"score"`
	Slots  map[string]string `json:"slots,omitempty"`
	Domain string            `json:"domain"`
}

// DeriveDomain classifies a canonical intent name. The namespace prefix wins;
// an IoT-style action slot on an unprefixed name still marks it "iot".
// Must run after canonicalization — legacy names carry no usable prefix.
func DeriveDomain(canonical string, slots map[string]string) string {
	switch {
	case strings.HasPrefix(canonical, "iot."):
		return "iot"
	case strings.HasPrefix(canonical, "chat."):
		return "chat"
	}
	if _, ok := slots["action"]; ok {
		return "iot"
	}
	return "other"
}

// Recognize runs the full recognition boundary for one utterance: best-match
// scoring, alias canonicalization (applied exactly once), slot extraction
// over the raw text, and domain derivation.
func Recognize(e *Engine, r *AliasResolver, text string) Recognition {
	intent, score := e.RecognizeBest(text)
	if intent != IntentUnknown {
		intent = r.Canonicalize(intent)
	}
	slots := ExtractSlots(text)
	return Recognition{
		Intent: intent,
		Score:  score,
		Slots:  slots,
		Domain: DeriveDomain(intent, slots),
	}
}
