package transform

import (
	"sort"

	mantle "github.com/reoring/gomantle"
)

// Registry holds transformers by name. It is not synchronized; register
// everything before sharing it.
type Registry struct {
	byName map[string]*mantle.Transformer
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]*mantle.Transformer{}}
}

// Predefined returns a registry holding the scalar transformers of this
// package under the names identity, url, number, integer, bool and rfc3339.
func Predefined() *Registry {
	r := NewRegistry()
	r.MustRegister("identity", Identity())
	r.MustRegister("url", URL())
	r.MustRegister("number", Number())
	r.MustRegister("integer", Integer())
	r.MustRegister("bool", Bool())
	r.MustRegister("rfc3339", TimeRFC3339())
	return r
}

// Register adds t under name, replacing any earlier entry.
func (r *Registry) Register(name string, t *mantle.Transformer) error {
	if name == "" || t == nil {
		return mantle.Issues{mantle.NewIssue(mantle.CodeUnresolvable, "/", "transformer name and value are required")}
	}
	r.byName[name] = t
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, t *mantle.Transformer) {
	if err := r.Register(name, t); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (*mantle.Transformer, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Inverted returns the inversion of a registered transformer. Unknown names
// fail with ErrUnresolvable and forward-only transformers with
// ErrNotReversible.
func (r *Registry) Inverted(name string) (*mantle.Transformer, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, mantle.Issues{mantle.NewIssue(mantle.CodeUnresolvable, "/", "no transformer named '"+name+"'")}
	}
	return t.Invert()
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
