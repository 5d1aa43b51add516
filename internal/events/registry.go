package events

import "context"

// Handler processes one inbound envelope. Returning an error requeues the
// message (bounded by the consumer's retry policy), so handlers must
// tolerate being invoked more than once with the same envelope.
type Handler func(ctx context.Context, env *Envelope) error

type binding struct {
	pattern string
	handler Handler
}

// Registry holds the pattern bindings for one consumer. It is built once
// at startup before the consumer runs and is read-only afterwards.
type Registry struct {
	bindings []binding
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Bind registers a handler for a routing pattern. Registration order is
// dispatch order: an inbound key goes to the first matching binding.
func (r *Registry) Bind(pattern string, h Handler) {
	r.bindings = append(r.bindings, binding{pattern: pattern, handler: h})
}

// Patterns returns the bound patterns in registration order.
func (r *Registry) Patterns() []string {
	out := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		out[i] = b.pattern
	}
	return out
}

// Dispatch routes the envelope to the first binding whose pattern matches
// its event type. It reports whether any binding matched.
func (r *Registry) Dispatch(ctx context.Context, env *Envelope) (bool, error) {
	for _, b := range r.bindings {
		if Match(b.pattern, env.EventType) {
			return true, b.handler(ctx, env)
		}
	}
	return false, nil
}
