package nlu

// stopWords is the fixed stop-word set used by Tokenize. Kept deliberately
// small: the recognition threshold is tuned against this exact set, so the
// two must change together.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "am": {},
	"do": {}, "does": {}, "did": {},
	// "on" and "off" stay: they are the only distinguishing tokens between
	// paired device intents.
	"to": {}, "of": {}, "in": {}, "at": {}, "for": {}, "with": {},
	"and": {}, "or": {}, "but": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "we": {}, "they": {}, "me": {}, "my": {}, "your": {},
	"please": {}, "can": {}, "could": {}, "would": {}, "will": {},
	"what": {}, "who": {}, "when": {}, "where": {}, "how": {},
	"hey": {}, "ok": {}, "okay": {},
}
