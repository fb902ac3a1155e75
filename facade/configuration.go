package facade

import "reflect"

// Configuration composes the context store and the extension registry
// shared by one Atlas and every facade built from it.
//
// It is not safe for concurrent mutation. Register everything before
// building facades; lookups during dispatch are read-only.
type Configuration struct {
	contexts   map[reflect.Type]any
	extensions []Extension
	parent     *Configuration
}

// NewConfiguration creates an empty Configuration.
func NewConfiguration() *Configuration {
	return &Configuration{
		contexts: make(map[reflect.Type]any),
	}
}

// derive returns a Configuration layered over c. Contexts registered on it
// shadow c's without writing to c; lookups fall through to c, so a Retryer
// swapped on c is still seen. It starts with c's extensions.
func (c *Configuration) derive() *Configuration {
	return &Configuration{
		contexts:   make(map[reflect.Type]any),
		extensions: c.extensions[:len(c.extensions):len(c.extensions)],
		parent:     c,
	}
}

// RegisterContext stores ctx under its dynamic type, replacing any context
// of the same kind. Nil contexts are ignored.
func (c *Configuration) RegisterContext(ctx any) {
	if ctx == nil {
		return
	}
	c.contexts[reflect.TypeOf(ctx)] = ctx
}

// RegisterExtension appends ext to the extension list. Nil extensions are
// ignored. Registration order is consultation order.
func (c *Configuration) RegisterExtension(ext Extension) {
	if ext == nil {
		return
	}
	c.extensions = append(c.extensions, ext)
}

// GetContext returns the active context of kind C.
func GetContext[C any](cfg *Configuration) (C, bool) {
	var zero C
	key := reflect.TypeFor[C]()
	for c := cfg; c != nil; c = c.parent {
		if v, ok := c.contexts[key]; ok {
			ctx, ok := v.(C)
			return ctx, ok
		}
	}
	return zero, false
}

// Extensions returns, in registration order, every registered extension
// implementing T.
func Extensions[T any](cfg *Configuration) []T {
	var out []T
	for _, ext := range cfg.extensions {
		if t, ok := ext.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
