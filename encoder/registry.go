package encoder

// Hook substitutes values the built-in rules do not handle. Returning false
// passes the value on to the next hook.
type Hook func(v any) (any, bool)

// Registry is an ordered list of hooks. See the package documentation for its
// lifecycle.
type Registry struct {
	hooks []Hook
}

var defaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register appends hook to the process-wide registry.
func Register(hook Hook) {
	defaultRegistry.Register(hook)
}

// Register appends hook. Each call adds exactly one entry; nil hooks are
// ignored.
func (r *Registry) Register(hook Hook) {
	if hook == nil {
		return
	}
	r.hooks = append(r.hooks, hook)
}

// Len reports how many hooks are registered.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.hooks)
}

func (r *Registry) lookup(v any) (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, hook := range r.hooks {
		if out, ok := hook(v); ok {
			return out, true
		}
	}
	return nil, false
}
