package nlu

import "strings"

// Slot extraction runs over the raw lowercased input, independent of the
// recognizer score. Containment tests against small fixed vocabularies; a
// missing signal simply omits the key. Phrases are checked before single
// words so "turn off" is not shadowed by a bare "on".

var actionPhrases = []struct{ phrase, value string }{
	{"turn off", "off"},
	{"turn on", "on"},
	{"switch off", "off"},
	{"switch on", "on"},
	{"power off", "off"},
	{"power on", "on"},
	{"dim", "dim"},
	{"toggle", "toggle"},
	{"open", "open"},
	{"close", "close"},
	{"start", "start"},
	{"stop", "stop"},
}

var deviceWords = []string{
	"light", "lamp", "fan", "heater", "thermostat", "tv", "printer", "speaker",
}

var locationPhrases = []string{
	"living room", "dining room", "bedroom", "kitchen", "bathroom", "office",
	"hallway", "garage", "garden",
}

// ExtractSlots derives a small slots mapping from the raw input text.
// Containment is case-insensitive; whitespace inside multi-word location
// values is stripped before storing, so "living room" becomes "livingroom".
func ExtractSlots(text string) map[string]string {
	lower := strings.ToLower(text)
	slots := make(map[string]string)

	for _, a := range actionPhrases {
		if strings.Contains(lower, a.phrase) {
			slots["action"] = a.value
			break
		}
	}
	for _, d := range deviceWords {
		if strings.Contains(lower, d) {
			slots["device"] = d
			break
		}
	}
	for _, l := range locationPhrases {
		if strings.Contains(lower, l) {
			slots["location"] = strings.ReplaceAll(l, " ", "")
			break
		}
	}
	return slots
}
