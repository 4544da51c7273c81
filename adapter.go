package mantle

import (
	"context"
	"log/slog"

	"github.com/reoring/gomantle/internal/ctxlog"
)

// Observer receives the outcome of adapter calls. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveDecode(typeName string, err error)
	ObserveEncode(typeName string, err error)
	ObserveIssue(typeName, code string)
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithRegistry sets the registry used to resolve nested and variant types.
func WithRegistry(r *Registry) AdapterOption {
	return func(a *Adapter) {
		if r != nil {
			a.reg = r
		}
	}
}

// WithLogger overrides the logger taken from the call context.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = l }
}

// WithObserver reports every call and issue to o.
func WithObserver(o Observer) AdapterOption {
	return func(a *Adapter) { a.obs = o }
}

// IgnoreProperties leaves the named properties out of Encode output.
func IgnoreProperties(names ...string) AdapterOption {
	return func(a *Adapter) {
		for _, n := range names {
			a.ignored[n] = struct{}{}
		}
	}
}

// Adapter converts between external trees and models of one type (or, for a
// class-cluster base, of the concrete types it resolves to).
type Adapter struct {
	typ     *ModelType
	reg     *Registry
	logger  *slog.Logger
	obs     Observer
	ignored map[string]struct{}
}

// NewAdapter creates an adapter for t.
func NewAdapter(t *ModelType, opts ...AdapterOption) (*Adapter, error) {
	if t == nil {
		return nil, Issues{NewIssue(CodeNoAdapterForType, "/", "model type is nil")}
	}
	a := &Adapter{typ: t, reg: DefaultRegistry, ignored: map[string]struct{}{}}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// MustNewAdapter is like NewAdapter but panics on error.
func MustNewAdapter(t *ModelType, opts ...AdapterOption) *Adapter {
	a, err := NewAdapter(t, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Adapter) Type() *ModelType    { return a.typ }
func (a *Adapter) Registry() *Registry { return a.reg }

func (a *Adapter) log(ctx context.Context) *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return ctxlog.FromContext(ctx)
}

// Decode builds a model from tree. The tree must be a mapping. Optional
// properties that are absent or fail to transform fall back to their default
// and are reported in Decoded.Warnings; mandatory ones fail the call. When
// model validation fails the returned Decoded still carries the warnings.
func (a *Adapter) Decode(ctx context.Context, tree any) (Decoded, error) {
	d, err := a.decode(ctx, tree)
	if a.obs != nil {
		a.obs.ObserveDecode(a.typ.name, err)
		a.observeIssues(d.Warnings)
		if iss, ok := AsIssues(err); ok {
			a.observeIssues(iss)
		}
	}
	return d, err
}

func (a *Adapter) decode(ctx context.Context, tree any) (Decoded, error) {
	root, ok := tree.(map[string]any)
	if !ok {
		return Decoded{}, Issues{NewIssue(CodeInvalidInput, "/", "expected a mapping")}
	}
	typ, err := a.typ.resolveConcrete(root, a.reg)
	if err != nil {
		return Decoded{}, err
	}
	if typ != a.typ {
		a.log(ctx).DebugContext(ctx, "resolved concrete model type", "base", a.typ.name, "type", typ.name)
	}

	d := Decoded{Presence: PresenceMap{}}
	values := map[string]any{}
	for _, p := range typ.props {
		if p.Derived {
			continue
		}
		paths := typ.keyPaths.Resolve(p.Name)
		if len(paths) == 0 {
			continue
		}
		ptr := KeyPathRef(paths[0]).Pointer()
		raw, seen, wasNull := readProperty(root, paths)
		if !seen {
			if typ.IsMandatory(p.Name) {
				it := NewIssue(CodeMissingMandatory, ptr, "missing key path for mandatory property")
				it.Property = p.Name
				return d, Issues{it}
			}
			it := NewIssue(CodeMissing, ptr, "")
			it.Property = p.Name
			d.Warnings = AppendIssues(d.Warnings, it)
			d.Presence[p.Name] = PresenceDefaultApplied
			continue
		}
		flags := PresenceSeen
		if wasNull {
			flags |= PresenceWasNull
		}
		v, err := a.transformerFor(typ, p).Forward(ctx, raw)
		if err != nil {
			iss := issuesFromErr(CodeInvalidValue, ptr, p.Name, err)
			if typ.IsMandatory(p.Name) {
				return d, iss
			}
			a.log(ctx).DebugContext(ctx, "property recovered with default", "type", typ.name, "property", p.Name, "error", err)
			d.Warnings = AppendIssues(d.Warnings, iss...)
			d.Presence[p.Name] = flags | PresenceDefaultApplied
			continue
		}
		if v == nil {
			flags |= PresenceDefaultApplied
		}
		values[p.Name] = v
		d.Presence[p.Name] = flags
	}

	m, err := New(ctx, typ, values)
	if err != nil {
		return d, err
	}
	d.Model = m
	return d, nil
}

// readProperty reads every key path of a property. seen is false when any path
// is absent; multi-path properties yield an []any tuple in path order.
func readProperty(tree map[string]any, paths KeyPaths) (v any, seen, wasNull bool) {
	if len(paths) == 1 {
		v, ok := ReadKeyPath(tree, paths[0])
		return v, ok, ok && v == nil
	}
	tuple := make([]any, len(paths))
	for i, kp := range paths {
		v, ok := ReadKeyPath(tree, kp)
		if !ok {
			return nil, false, false
		}
		if v == nil {
			wasNull = true
		}
		tuple[i] = v
	}
	return tuple, true, wasNull
}

func (a *Adapter) transformerFor(typ *ModelType, p Property) *Transformer {
	if t := typ.Transformer(p.Name); t != nil {
		return t
	}
	if p.Model == "" {
		return nil
	}
	if p.Many {
		return ModelsTransformer(a.reg, p.Model)
	}
	return ModelTransformer(a.reg, p.Model)
}

// Encode renders m as a tree using the key paths of m's own type, which must
// be the adapter's type or extend it. Properties that cannot be encoded are
// left out and reported; the partial tree is always returned.
func (a *Adapter) Encode(ctx context.Context, m *Model) (map[string]any, error) {
	out, iss := a.encode(ctx, m)
	var err error
	if len(iss) > 0 {
		err = iss
	}
	if a.obs != nil {
		a.obs.ObserveEncode(a.typ.name, err)
		a.observeIssues(iss)
	}
	return out, err
}

func (a *Adapter) encode(ctx context.Context, m *Model) (map[string]any, Issues) {
	out := map[string]any{}
	if m == nil {
		return out, Issues{NewIssue(CodeInvalidInput, "/", "model is nil")}
	}
	if !m.typ.IsA(a.typ) {
		return out, Issues{NewIssue(CodeNoAdapterForType, "/", m.typ.name+" is not a "+a.typ.name)}
	}
	typ := m.typ
	var iss Issues
	for _, p := range typ.props {
		if !p.Permanent() {
			continue
		}
		if _, skip := a.ignored[p.Name]; skip {
			continue
		}
		paths := typ.keyPaths.Resolve(p.Name)
		if len(paths) == 0 {
			continue
		}
		ptr := KeyPathRef(paths[0]).Pointer()
		t := a.transformerFor(typ, p)
		if t != nil && !t.Reversible() {
			it := NewIssue(CodeNotReversible, ptr, "forward-only transformer")
			it.Property = p.Name
			iss = AppendIssues(iss, it)
			continue
		}
		v, err := t.Reverse(ctx, m.values[p.Name])
		if err != nil {
			iss = AppendIssues(iss, issuesFromErr(CodeInvalidValue, ptr, p.Name, err)...)
			continue
		}
		if err := writeProperty(out, paths, v); err != nil {
			iss = AppendIssues(iss, issuesFromErr(CodeConflictingKeyPath, ptr, p.Name, err)...)
		}
	}
	return out, iss
}

// writeProperty checks every key path before writing any of them.
func writeProperty(tree map[string]any, paths KeyPaths, v any) error {
	if len(paths) == 1 {
		if err := checkWritable(tree, paths[0]); err != nil {
			return err
		}
		return WriteKeyPath(tree, paths[0], v)
	}
	tuple := make([]any, len(paths))
	if v != nil {
		t, ok := v.([]any)
		if !ok || len(t) != len(paths) {
			return Issues{NewIssue(CodeInvalidValue, KeyPathRef(paths[0]).Pointer(), "multi key path value must be a list matching its key paths")}
		}
		tuple = t
	}
	for _, kp := range paths {
		if err := checkWritable(tree, kp); err != nil {
			return err
		}
	}
	for i, kp := range paths {
		if err := WriteKeyPath(tree, kp, tuple[i]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeArray decodes every element, stopping at the first failure. Issue
// paths are prefixed with the element index.
func (a *Adapter) DecodeArray(ctx context.Context, trees []any) ([]*Model, error) {
	out := make([]*Model, 0, len(trees))
	for i, tree := range trees {
		d, err := a.Decode(ctx, tree)
		if err != nil {
			return nil, issuesFromErr(CodeInvalidValue, RootPath().Index(i).Pointer(), "", err)
		}
		out = append(out, d.Model)
	}
	return out, nil
}

// EncodeArray encodes every model, stopping at the first failure.
func (a *Adapter) EncodeArray(ctx context.Context, models []*Model) ([]any, error) {
	out := make([]any, 0, len(models))
	for i, m := range models {
		tree, err := a.Encode(ctx, m)
		if err != nil {
			return nil, issuesFromErr(CodeInvalidValue, RootPath().Index(i).Pointer(), "", err)
		}
		out = append(out, tree)
	}
	return out, nil
}

func (a *Adapter) observeIssues(iss Issues) {
	for _, it := range iss {
		a.obs.ObserveIssue(a.typ.name, it.Code)
	}
}

// Decode is a convenience wrapper around NewAdapter(t, opts...).Decode that
// returns only the model.
func Decode(ctx context.Context, t *ModelType, tree any, opts ...AdapterOption) (*Model, error) {
	a, err := NewAdapter(t, opts...)
	if err != nil {
		return nil, err
	}
	d, err := a.Decode(ctx, tree)
	if err != nil {
		return nil, err
	}
	return d.Model, nil
}

// Encode renders m with an adapter for m's own type.
func Encode(ctx context.Context, m *Model, opts ...AdapterOption) (map[string]any, error) {
	if m == nil {
		return nil, Issues{NewIssue(CodeInvalidInput, "/", "model is nil")}
	}
	a, err := NewAdapter(m.typ, opts...)
	if err != nil {
		return nil, err
	}
	return a.Encode(ctx, m)
}
