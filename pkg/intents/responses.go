package intents

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

const responsesLogPrefix = "intents:responses"

// LoadResponses loads the response-text table from file paths or environment.
// It tries paths in order: first any paths passed in, then RESPONSES_FILE
// env, then defaults, falling back to the embedded table.
func LoadResponses(paths ...string) map[string][]string {
	all := make([]string, 0, len(paths)+3)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("RESPONSES_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/responses.json", "responses.json")

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		var table map[string][]string
		if err := json.Unmarshal(data, &table); err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse response file %s: %v", responsesLogPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded %d response key(s) from %s", responsesLogPrefix, len(table), p))
		return table
	}

	slog.Info(fmt.Sprintf("%s - Using default response table", responsesLogPrefix))
	return DefaultResponses()
}

// DefaultResponses returns the embedded fallback response table.
func DefaultResponses() map[string][]string {
	return map[string][]string{
		"chat.greet": {
			"Hello!",
			"Hi there.",
			"Hey, good to see you.",
		},
		"chat.bye": {
			"Goodbye!",
			"See you later.",
		},
		"chat.reply": {
			"Interesting, tell me more.",
			"I see.",
			"Fair enough.",
		},
	}
}
