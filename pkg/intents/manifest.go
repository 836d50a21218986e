// Package intents loads the intent-definition manifest and the response-text
// table. Loading is fail-soft: unreadable or unparsable files are skipped
// with a warning and the embedded defaults apply, so the router always comes
// up with a working vocabulary.
package intents

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/morezero/intent-router/pkg/nlu"
)

const manifestLogPrefix = "intents:manifest"

// schemaConstraint is the manifest schema range this build understands.
var schemaConstraint = func() *semver.Constraints {
	c, err := semver.NewConstraint("^1")
	if err != nil {
		panic(err)
	}
	return c
}()

// Manifest is the on-disk intent-definition document.
type Manifest struct {
	SchemaVersion string                 `json:"schemaVersion"`
	Aliases       map[string]string      `json:"aliases,omitempty"`
	Intents       []nlu.IntentDefinition `json:"intents"`
}

// LoadManifest loads the intent manifest from file paths or environment.
// It tries paths in order: first any paths passed in, then INTENTS_FILE env,
// then defaults. A file whose schemaVersion falls outside ^1 is skipped like
// a parse failure.
func LoadManifest(paths ...string) *Manifest {
	all := make([]string, 0, len(paths)+3)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("INTENTS_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/intents.json", "intents.json")

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		var m Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse intent manifest %s: %v", manifestLogPrefix, p, err))
			continue
		}
		if err := checkSchemaVersion(m.SchemaVersion); err != nil {
			slog.Warn(fmt.Sprintf("%s - Skipping intent manifest %s: %v", manifestLogPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded %d intent(s) from %s", manifestLogPrefix, len(m.Intents), p))
		return &m
	}

	slog.Info(fmt.Sprintf("%s - Using default intent manifest", manifestLogPrefix))
	return DefaultManifest()
}

// checkSchemaVersion validates a manifest schemaVersion against ^1.
func checkSchemaVersion(raw string) error {
	if raw == "" {
		return fmt.Errorf("missing schemaVersion")
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("invalid schemaVersion %q: %w", raw, err)
	}
	if !schemaConstraint.Check(v) {
		return fmt.Errorf("unsupported schemaVersion %s (want %s)", raw, schemaConstraint)
	}
	return nil
}

// DefaultManifest returns the embedded fallback intent vocabulary.
func DefaultManifest() *Manifest {
	return &Manifest{
		SchemaVersion: "1.0.0",
		Aliases: map[string]string{
			"gettime":   "sys.time.now",
			"greeting":  "chat.greet",
			"goodbye":   "chat.bye",
			"smalltalk": "chat.reply",
		},
		Intents: []nlu.IntentDefinition{
			{
				Name: "chat.greet",
				Examples: []nlu.Example{
					{Utterance: "hello"},
					{Utterance: "hello there"},
					{Utterance: "hi how are you"},
					{Utterance: "good morning"},
				},
			},
			{
				Name: "chat.bye",
				Examples: []nlu.Example{
					{Utterance: "goodbye"},
					{Utterance: "bye bye"},
					{Utterance: "see you later"},
				},
			},
			{
				Name: "chat.reply",
				Examples: []nlu.Example{
					{Utterance: "tell me something"},
					{Utterance: "how is it going"},
					{Utterance: "what do you think"},
				},
			},
			{
				Name: "sys.time.now",
				Examples: []nlu.Example{
					{Utterance: "what time is it"},
					{Utterance: "tell me the time"},
					{Utterance: "what is the current time"},
				},
			},
			{
				Name: "iot.light.on",
				Examples: []nlu.Example{
					{Utterance: "turn on the light"},
					{Utterance: "switch on the lamp"},
					{Utterance: "lights on please"},
				},
			},
			{
				Name: "iot.light.off",
				Examples: []nlu.Example{
					{Utterance: "turn off the light"},
					{Utterance: "switch off the lamp"},
					{Utterance: "lights off please"},
				},
			},
		},
	}
}
