package event

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
)

// Definition describes one registered event type.
type Definition struct {
	// Type is the event type being defined.
	Type Type
	// Aggregate is the aggregate the type belongs to.
	Aggregate AggregateType
	// ValidatePayload checks the payload shape before append. Nil means the
	// type carries no payload requirements.
	ValidatePayload func(raw json.RawMessage) error
}

// Registry holds the closed set of event definitions. Appends are rejected
// for unregistered types so the journal never accumulates unknown facts.
type Registry struct {
	mu   sync.RWMutex
	defs map[Type]Definition
}

// NewRegistry creates an empty event registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Type]Definition)}
}

// Register adds an event definition. Re-registering a type is an error.
func (r *Registry) Register(def Definition) error {
	if !def.Type.IsValid() {
		return apperrors.New(apperrors.CodeEventUnknownType, "event type is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Type]; exists {
		return apperrors.New(apperrors.CodeEventInvalidEnvelope,
			fmt.Sprintf("event type %q already registered", def.Type))
	}
	r.defs[def.Type] = def
	return nil
}

// Definition returns the definition for a type when registered.
func (r *Registry) Definition(t Type) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[t]
	return def, ok
}

// Types returns all registered types in sorted order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]Type, 0, len(r.defs))
	for t := range r.defs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// ValidateForAppend checks envelope and payload of an event before it is
// appended to the journal, and normalizes the timestamp to UTC millisecond
// precision. It returns the validated event.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	def, ok := r.Definition(evt.Type)
	if !ok {
		return Event{}, apperrors.New(apperrors.CodeEventUnknownType,
			fmt.Sprintf("unknown event type %q", evt.Type))
	}
	if strings.TrimSpace(evt.GameID) == "" {
		return Event{}, apperrors.New(apperrors.CodeEventInvalidEnvelope, "event game id is required")
	}
	if strings.TrimSpace(evt.ID) == "" {
		return Event{}, apperrors.New(apperrors.CodeEventInvalidEnvelope, "event id is required")
	}
	if evt.Version < 1 {
		return Event{}, apperrors.New(apperrors.CodeEventInvalidEnvelope, "event version must be at least 1")
	}
	if def.Aggregate != "" && evt.AggregateType != def.Aggregate {
		return Event{}, apperrors.New(apperrors.CodeEventInvalidEnvelope,
			fmt.Sprintf("event type %q belongs to aggregate %q, got %q", evt.Type, def.Aggregate, evt.AggregateType))
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(evt.PayloadJSON); err != nil {
			return Event{}, apperrors.Wrap(apperrors.CodeEventInvalidPayload,
				fmt.Sprintf("invalid payload for event type %q", evt.Type), err)
		}
	}
	return evt, nil
}
