package filters

import (
	"fmt"
	"sort"

	"patchbay/internal/dsp"
)

// Handler validates, defaults, and describes filter definitions of one type.
type Handler interface {
	Type() string
	DisplayName() string
	Summary(f dsp.Filter) string
	Default() dsp.Filter
	Validate(f dsp.Filter) error
}

// Registry maps filter type tags to their handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler; registering the same type twice is a programmer
// error and fails.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("register filter handler: nil handler")
	}
	tag := h.Type()
	if tag == "" {
		return fmt.Errorf("register filter handler: empty type tag")
	}
	if _, exists := r.handlers[tag]; exists {
		return fmt.Errorf("register filter handler: duplicate type %q", tag)
	}
	r.handlers[tag] = h
	return nil
}

// Lookup returns the handler for a type tag.
func (r *Registry) Lookup(typeTag string) (Handler, bool) {
	h, ok := r.handlers[typeTag]
	return h, ok
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []string {
	tags := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Validate checks a definition against its type's handler. Definitions of
// unregistered types pass: the engine may know filter types patchbay does not,
// and patchbay never destroys state it does not own.
func (r *Registry) Validate(f dsp.Filter) error {
	h, ok := r.Lookup(f.Type)
	if !ok {
		return nil
	}
	return h.Validate(f)
}

// Summary renders one line of display text for a definition, falling back to
// the bare type tag for unregistered types.
func (r *Registry) Summary(f dsp.Filter) string {
	h, ok := r.Lookup(f.Type)
	if !ok {
		return f.Type
	}
	return h.Summary(f)
}
