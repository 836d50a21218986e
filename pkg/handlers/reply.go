package handlers

import (
	"context"
	"math/rand"
	"strings"

	"github.com/morezero/intent-router/pkg/dispatch"
	"github.com/morezero/intent-router/pkg/nlu"
)

// NewReplyHandlerParams holds parameters for NewReplyHandler.
type NewReplyHandlerParams struct {
	Intent    string
	Responses map[string][]string
	Resolver  *nlu.AliasResolver
	// Pick selects one of n options. Defaults to rand.Intn; tests inject a
	// deterministic one.
	Pick func(n int) int
}

// ReplyHandler answers a chat intent with one of its canned response texts.
// One instance is registered per chat intent; they share the response table.
type ReplyHandler struct {
	intent    string
	responses map[string][]string
	resolver  *nlu.AliasResolver
	pick      func(n int) int
}

// NewReplyHandler creates a ReplyHandler for one intent.
func NewReplyHandler(params NewReplyHandlerParams) *ReplyHandler {
	pick := params.Pick
	if pick == nil {
		pick = rand.Intn
	}
	return &ReplyHandler{
		intent:    params.Intent,
		responses: params.Responses,
		resolver:  params.Resolver,
		pick:      pick,
	}
}

// Handle picks a response for the handler's intent. The response table may be
// keyed by the canonical name, its bare last segment, or a legacy alias;
// candidates are tried in that order.
func (h *ReplyHandler) Handle(_ context.Context, _ map[string]interface{}, _ string) (*dispatch.Result, error) {
	options, key := h.lookup()
	if len(options) == 0 {
		return nil, dispatch.NewHandlerError("NO_RESPONSE", "no response text configured for intent "+h.intent)
	}
	return &dispatch.Result{
		Value: map[string]interface{}{
			"text":        options[h.pick(len(options))],
			"responseKey": key,
		},
	}, nil
}

// lookup finds the first candidate key with configured options.
func (h *ReplyHandler) lookup() ([]string, string) {
	for _, key := range h.candidateKeys() {
		if options, ok := h.responses[key]; ok && len(options) > 0 {
			return options, key
		}
	}
	return nil, ""
}

// candidateKeys lists the lookup keys for this intent, most specific first.
func (h *ReplyHandler) candidateKeys() []string {
	keys := []string{h.intent}
	if i := strings.LastIndex(h.intent, "."); i >= 0 && i+1 < len(h.intent) {
		keys = append(keys, h.intent[i+1:])
	}
	if h.resolver != nil {
		keys = append(keys, h.resolver.LegacyNames(h.intent)...)
	}
	return keys
}
