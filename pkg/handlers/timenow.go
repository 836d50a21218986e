package handlers

import (
	"context"
	"time"

	"github.com/morezero/intent-router/pkg/dispatch"
)

// IntentTimeNow is the clock lookup intent.
const IntentTimeNow = "sys.time.now"

// TimeNowHandler answers sys.time.now with the current wall-clock time,
// optionally in a requested IANA timezone.
type TimeNowHandler struct {
	// now is the clock source; tests pin it.
	now func() time.Time
}

// NewTimeNowHandler creates a TimeNowHandler using the system clock.
func NewTimeNowHandler() *TimeNowHandler {
	return &TimeNowHandler{now: time.Now}
}

// Handle reads payload.timezone (default UTC) and returns the formatted time.
// An unknown timezone is the caller's mistake and fails with BAD_INPUT.
func (h *TimeNowHandler) Handle(_ context.Context, payload map[string]interface{}, _ string) (*dispatch.Result, error) {
	tz, _ := payload["timezone"].(string)
	if tz == "" {
		tz = "UTC"
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, dispatch.NewHandlerError("BAD_INPUT", "unknown timezone "+tz)
	}

	now := h.now().In(loc)
	return &dispatch.Result{
		Value: map[string]interface{}{
			"time":     now.Format(time.RFC3339),
			"timezone": loc.String(),
			"unix":     now.Unix(),
		},
	}, nil
}
