package mantle

// Registry maps model type names to types. It is not synchronized: register
// every type before sharing the registry with concurrent Decode and Encode
// calls.
type Registry struct {
	types map[string]*ModelType
}

func NewRegistry() *Registry {
	return &Registry{types: map[string]*ModelType{}}
}

// DefaultRegistry is used by adapters built without WithRegistry.
var DefaultRegistry = NewRegistry()

// Register adds types, replacing any earlier type with the same name.
func (r *Registry) Register(types ...*ModelType) error {
	for _, t := range types {
		if t == nil {
			return Issues{NewIssue(CodeUnresolvable, "/", "cannot register a nil model type")}
		}
		r.types[t.name] = t
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(types ...*ModelType) *Registry {
	if err := r.Register(types...); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(name string) (*ModelType, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Names lists registered type names in sorted order.
func (r *Registry) Names() []string { return keysOf(r.types) }

// Adapter returns an adapter for a registered type name bound to this
// registry. Unregistered names fail with ErrNoAdapterForType.
func (r *Registry) Adapter(name string, opts ...AdapterOption) (*Adapter, error) {
	t, ok := r.types[name]
	if !ok {
		it := NewIssue(CodeNoAdapterForType, "/", "model type '"+name+"' is not registered")
		return nil, Issues{it}
	}
	return NewAdapter(t, append([]AdapterOption{WithRegistry(r)}, opts...)...)
}
