package mantle

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Model is one instance of a ModelType: a validated set of property values.
// A Model is not safe for concurrent mutation.
type Model struct {
	typ    *ModelType
	id     uuid.UUID
	values map[string]any
}

// New builds a model from a property-name keyed value mapping. Unknown or
// derived keys are rejected, absent and nil values take the property default,
// and every property validator runs before the whole-instance validators.
func New(ctx context.Context, t *ModelType, values map[string]any) (*Model, error) {
	if t == nil {
		return nil, Issues{NewIssue(CodeUnresolvable, "/", "model type is nil")}
	}
	var iss Issues
	for _, k := range keysOf(values) {
		p, ok := t.Property(k)
		if !ok || p.Derived {
			it := NewIssue(CodeUnresolvable, RootPath().Field(k).Pointer(), "no settable property '"+k+"' on "+t.name)
			it.Property = k
			iss = AppendIssues(iss, it)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	m := &Model{typ: t, id: uuid.New(), values: make(map[string]any, len(t.props))}
	for _, p := range t.props {
		if p.Derived {
			continue
		}
		v, ok := values[p.Name]
		if !ok || v == nil {
			v = p.Default
		}
		m.values[p.Name] = v
	}
	if err := m.Validate(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNew is like New but panics on error.
func MustNew(ctx context.Context, t *ModelType, values map[string]any) *Model {
	m, err := New(ctx, t, values)
	if err != nil {
		panic(err)
	}
	return m
}

// Validate runs every property validator, storing replacement values, and then
// the whole-instance validators when no property failed.
func (m *Model) Validate(ctx context.Context) error {
	var iss Issues
	for _, p := range m.typ.props {
		fn, ok := m.typ.validators[p.Name]
		if !ok {
			continue
		}
		v, err := fn(ctx, m.values[p.Name])
		if err != nil {
			iss = AppendIssues(iss, issuesFromErr(CodeInvalidValue, RootPath().Field(p.Name).Pointer(), p.Name, err)...)
			continue
		}
		m.values[p.Name] = v
	}
	if len(iss) > 0 {
		return iss
	}
	for _, fn := range m.typ.validate {
		if err := fn(ctx, m); err != nil {
			iss = AppendIssues(iss, issuesFromErr(CodeInvalidValue, "/", "", err)...)
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (m *Model) Type() *ModelType { return m.typ }

// ID identifies the instance, for example as the target of a Ref. Clones get
// a fresh ID.
func (m *Model) ID() uuid.UUID { return m.id }

// Get returns a property value. Derived properties are computed on each call.
func (m *Model) Get(name string) (any, bool) {
	p, ok := m.typ.Property(name)
	if !ok {
		return nil, false
	}
	if p.Derived {
		if p.Derive == nil {
			return nil, true
		}
		return p.Derive(m), true
	}
	return m.values[name], true
}

// GetString returns a property value when it holds a string.
func (m *Model) GetString(name string) string {
	v, _ := m.Get(name)
	s, _ := v.(string)
	return s
}

// Set stores a property value without running validators.
func (m *Model) Set(name string, v any) error {
	p, ok := m.typ.Property(name)
	if !ok || p.Derived {
		it := NewIssue(CodeUnresolvable, RootPath().Field(name).Pointer(), "no settable property '"+name+"' on "+m.typ.name)
		it.Property = name
		return Issues{it}
	}
	m.values[name] = v
	return nil
}

// Values returns a copy of every stored (non-derived) property value.
func (m *Model) Values() map[string]any {
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// PermanentValues returns the values of Permanent properties only.
func (m *Model) PermanentValues() map[string]any {
	out := map[string]any{}
	for _, p := range m.typ.props {
		if p.Permanent() {
			out[p.Name] = m.values[p.Name]
		}
	}
	return out
}

// Clone returns a shallow copy with a new identity.
func (m *Model) Clone() *Model {
	return &Model{typ: m.typ, id: uuid.New(), values: m.Values()}
}

// Equal reports whether both models share a type and hold equal Permanent
// values. Transitory, weak and derived properties are ignored.
func (m *Model) Equal(other *Model) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.typ != other.typ {
		return false
	}
	for _, p := range m.typ.props {
		if !p.Permanent() {
			continue
		}
		if !valuesEqual(m.values[p.Name], other.values[p.Name]) {
			return false
		}
	}
	return true
}

func (m *Model) String() string {
	return fmt.Sprintf("<%s %s> %v", m.typ.name, m.id, m.PermanentValues())
}

// MergeValue merges one property from other into m. Transitory properties are
// left alone. A registered merge hook decides the result; otherwise other's
// value wins unless it is nil, the zero value or the property default.
func (m *Model) MergeValue(ctx context.Context, name string, other *Model) error {
	p, ok := m.typ.Property(name)
	if !ok || p.Derived {
		it := NewIssue(CodeUnresolvable, RootPath().Field(name).Pointer(), "no mergeable property '"+name+"'")
		it.Property = name
		return Issues{it}
	}
	if !p.Permanent() {
		return nil
	}
	if _, ok := other.typ.Property(name); !ok {
		return nil
	}
	theirs := other.values[name]
	if fn, ok := m.typ.mergers[name]; ok {
		v, err := fn(ctx, m.values[name], theirs)
		if err != nil {
			return issuesFromErr(CodeMerge, RootPath().Field(name).Pointer(), name, err)
		}
		m.values[name] = v
		return nil
	}
	if isDefaultValue(theirs, p.Default) {
		return nil
	}
	m.values[name] = theirs
	return nil
}

// Merge merges every Permanent property both types declare. The types must
// be related by extension in either direction.
func (m *Model) Merge(ctx context.Context, other *Model) error {
	if other == nil {
		return nil
	}
	if !m.typ.IsA(other.typ) && !other.typ.IsA(m.typ) {
		return Issues{NewIssue(CodeMerge, "/", "cannot merge "+other.typ.name+" into "+m.typ.name)}
	}
	var iss Issues
	for _, p := range m.typ.props {
		if !p.Permanent() {
			continue
		}
		if err := m.MergeValue(ctx, p.Name, other); err != nil {
			if sub, ok := AsIssues(err); ok {
				iss = AppendIssues(iss, sub...)
				continue
			}
			return err
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func isDefaultValue(v, def any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	if rv.IsZero() {
		return true
	}
	return def != nil && valuesEqual(v, def)
}

func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case *Model:
		bv, ok := b.(*Model)
		return ok && av.Equal(bv)
	case []*Model:
		bv, ok := b.([]*Model)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
