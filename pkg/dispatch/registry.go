package dispatch

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps canonical intent names to their handlers. Keys are
// case-insensitive. Built once at startup from an explicit registration
// table; read-heavy afterwards.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	names    map[string]string // lowercase key -> registered spelling
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		names:    make(map[string]string),
	}
}

// Register binds a handler to an intent name. Duplicate registration is a
// startup configuration error, not a silent overwrite.
func (r *Registry) Register(intent string, h Handler) error {
	if intent == "" {
		return fmt.Errorf("dispatch: intent name must not be empty")
	}
	if h == nil {
		return fmt.Errorf("dispatch: nil handler for intent %q", intent)
	}
	key := strings.ToLower(intent)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.names[key]; ok {
		return fmt.Errorf("dispatch: duplicate handler registration for intent %q (already registered as %q)", intent, existing)
	}
	r.handlers[key] = h
	r.names[key] = intent
	return nil
}

// Resolve looks up the handler for an intent name. The second return is false
// when no handler is registered; callers decide whether that is an ingress
// rejection or a dropped envelope.
func (r *Registry) Resolve(intent string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[strings.ToLower(intent)]
	return h, ok
}

// Names returns the registered intent names in their original spelling, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.names))
	for _, n := range r.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
