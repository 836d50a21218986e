package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	SubjectRoute         = "assistant.intent.route"
	SubjectReload        = "assistant.intent.reload"
	SubjectDispatchEvent = "intent.dispatched"
)

// BuildDispatchSubject builds a granular dispatch event subject for one
// intent. Dots in the intent name would read as extra subject tokens, so
// they are flattened to underscores.
func BuildDispatchSubject(intent string) string {
	safe := strings.ReplaceAll(intent, ".", "_")
	return fmt.Sprintf("%s.%s", SubjectDispatchEvent, safe)
}
