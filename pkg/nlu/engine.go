package nlu

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
)

const engineLogPrefix = "nlu:engine"

// IntentUnknown is the sentinel intent reported when no confident match exists.
const IntentUnknown = "unknown"

// ScoreThreshold is the minimum rounded Jaccard score for a confident match.
// It is tuned against stop-word-filtered tokenization: removing stop words
// raises the overlap of intent-bearing words, which is what permits a
// threshold this low. Change the tokenization mode and this value together.
const ScoreThreshold = 0.35

// IntentDefinition is one named matchable concept from the definition source.
type IntentDefinition struct {
	Name       string    `json:"name"`
	Examples   []Example `json:"examples"`
	Deprecated bool      `json:"deprecated,omitempty"`
}

// Example is a single example utterance, optionally with pre-supplied tokens.
type Example struct {
	Utterance string   `json:"utterance"`
	Tokens    []string `json:"tokens,omitempty"`
}

// compiledExample is an example with its token set precomputed at load time.
type compiledExample struct {
	utterance string
	tokens    map[string]struct{}
}

// compiledIntent preserves the definition's insertion order; ties on equal
// maximum score resolve to the first intent/example seen.
type compiledIntent struct {
	name       string
	deprecated bool
	examples   []compiledExample
}

// snapshot is an immutable compiled intent set. Load publishes a whole new
// snapshot; readers never observe a partially built one.
type snapshot struct {
	intents []compiledIntent
}

var emptySnapshot = &snapshot{}

// EngineOpts configures an Engine.
type EngineOpts struct {
	// RecomputeTokens forces re-tokenization of every example, ignoring any
	// tokens supplied by the definition source. When false, supplied tokens
	// are used as-is and only missing ones are computed.
	RecomputeTokens bool
}

// Engine maps free text to the best-matching loaded intent.
type Engine struct {
	opts    EngineOpts
	current atomic.Pointer[snapshot]
}

// NewEngine creates an Engine with an empty intent set.
func NewEngine(opts EngineOpts) *Engine {
	e := &Engine{opts: opts}
	e.current.Store(emptySnapshot)
	return e
}

// Load compiles the given definitions and atomically replaces the active
// intent set. Deprecated intents are kept in the snapshot but excluded from
// matching.
func (e *Engine) Load(defs []IntentDefinition) {
	snap := &snapshot{intents: make([]compiledIntent, 0, len(defs))}
	examples := 0
	for _, def := range defs {
		ci := compiledIntent{
			name:       def.Name,
			deprecated: def.Deprecated,
			examples:   make([]compiledExample, 0, len(def.Examples)),
		}
		for _, ex := range def.Examples {
			tokens := ex.Tokens
			if e.opts.RecomputeTokens || len(tokens) == 0 {
				tokens = Tokenize(ex.Utterance, true)
			}
			ci.examples = append(ci.examples, compiledExample{
				utterance: ex.Utterance,
				tokens:    TokenSet(tokens),
			})
			examples++
		}
		snap.intents = append(snap.intents, ci)
	}
	e.current.Store(snap)
	slog.Info(fmt.Sprintf("%s - Loaded %d intents (%d examples)", engineLogPrefix, len(snap.intents), examples))
}

// Clear atomically replaces the active intent set with an empty one.
func (e *Engine) Clear() {
	e.current.Store(emptySnapshot)
}

// RecognizeBest scores text against every non-deprecated intent example and
// returns the best intent with its rounded score. Below-threshold outcomes
// return IntentUnknown but still carry the score for observability. Ties on
// the maximum score go to the first intent/example in definition order.
func (e *Engine) RecognizeBest(text string) (string, float64) {
	tokens := Tokenize(text, true)
	if len(tokens) == 0 {
		return IntentUnknown, 0.0
	}
	input := TokenSet(tokens)

	snap := e.current.Load()
	best := ""
	bestScore := 0.0
	for _, intent := range snap.intents {
		if intent.deprecated {
			continue
		}
		for _, ex := range intent.examples {
			if s := jaccard(input, ex.tokens); s > bestScore {
				bestScore = s
				best = intent.name
			}
		}
	}

	score := round3(bestScore)
	if best == "" || score < ScoreThreshold {
		return IntentUnknown, score
	}
	return best, score
}

// Stats reports the size of the active intent set.
func (e *Engine) Stats() (intents, examples int) {
	snap := e.current.Load()
	for _, intent := range snap.intents {
		examples += len(intent.examples)
	}
	return len(snap.intents), examples
}

// jaccard computes |a∩b| / |a∪b|; zero when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
