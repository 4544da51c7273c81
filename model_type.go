package mantle

import (
	"context"
	"sort"

	"github.com/reoring/gomantle/i18n"
)

// ValidateFunc checks a proposed property value. It returns the value to
// store (the same value to accept, a replacement to default it) or an error to
// reject it.
type ValidateFunc func(ctx context.Context, value any) (any, error)

// ModelValidateFunc checks a fully constructed model.
type ModelValidateFunc func(ctx context.Context, m *Model) error

// MergeFunc combines the receiver's value with the other model's value.
type MergeFunc func(ctx context.Context, mine, theirs any) (any, error)

// ResolveFunc picks the concrete model type for an input mapping. Returning
// nil means no concrete type applies.
type ResolveFunc func(tree map[string]any) *ModelType

type resolver func(tree map[string]any, reg *Registry) (*ModelType, error)

// ModelType is the immutable description of a model: its property catalog,
// key-path map, transformers, and validation and merge hooks.
type ModelType struct {
	name         string
	base         *ModelType
	props        []Property
	index        map[string]int
	keyPaths     KeyPathMap
	explicitMap  bool
	transformers map[string]*Transformer
	mandatory    map[string]struct{}
	validators   map[string]ValidateFunc
	validate     []ModelValidateFunc
	mergers      map[string]MergeFunc
	resolve      resolver
}

// Ensure ModelType implements Catalog
var _ Catalog = (*ModelType)(nil)

func (t *ModelType) Name() string     { return t.name }
func (t *ModelType) String() string   { return t.name }
func (t *ModelType) Base() *ModelType { return t.base }

// Properties returns the catalog in declaration order (base properties first).
func (t *ModelType) Properties() []Property {
	return append([]Property(nil), t.props...)
}

// Property looks up a declared property by name.
func (t *ModelType) Property(name string) (Property, bool) {
	i, ok := t.index[name]
	if !ok {
		return Property{}, false
	}
	return t.props[i], true
}

// KeyPaths returns a copy of the effective key-path map.
func (t *ModelType) KeyPaths() KeyPathMap { return t.keyPaths.Clone() }

// HasExplicitKeyPaths reports whether the type declared its own map instead of
// using the identity map.
func (t *ModelType) HasExplicitKeyPaths() bool { return t.explicitMap }

// Transformer returns the transformer registered for a property, if any.
func (t *ModelType) Transformer(property string) *Transformer { return t.transformers[property] }

// IsMandatory reports whether deserialization fails when the property cannot
// be read or transformed.
func (t *ModelType) IsMandatory(property string) bool {
	_, ok := t.mandatory[property]
	return ok
}

// IsClusterBase reports whether the type resolves a concrete type from input.
func (t *ModelType) IsClusterBase() bool { return t.resolve != nil }

// IsA reports whether t is other or extends it.
func (t *ModelType) IsA(other *ModelType) bool {
	for cur := t; cur != nil; cur = cur.base {
		if cur == other {
			return true
		}
	}
	return false
}

// resolveConcrete runs the cluster resolver once, if one is configured.
func (t *ModelType) resolveConcrete(tree map[string]any, reg *Registry) (*ModelType, error) {
	if t.resolve == nil {
		return t, nil
	}
	c, err := t.resolve(tree, reg)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, Issues{{Path: "/", Code: CodeNoConcreteType, Message: i18n.T(CodeNoConcreteType, nil), Hint: "resolver for '" + t.name + "' returned no type"}}
	}
	return c, nil
}

// ---- builder ----

type typeBuilder struct {
	name         string
	base         *ModelType
	props        []Property
	keyPaths     KeyPathMap
	transformers map[string]*Transformer
	mandatory    map[string]struct{}
	validators   map[string]ValidateFunc
	validate     []ModelValidateFunc
	mergers      map[string]MergeFunc
	resolve      resolver
}

// Type creates a new model type builder.
func Type(name string) *typeBuilder {
	return &typeBuilder{
		name:         name,
		transformers: map[string]*Transformer{},
		mandatory:    map[string]struct{}{},
		validators:   map[string]ValidateFunc{},
		mergers:      map[string]MergeFunc{},
	}
}

// Extends copies the base type's properties, key paths, transformers, hooks
// and mandatory set. Call it before declaring the subtype's own properties.
// The cluster resolver is not inherited.
func (b *typeBuilder) Extends(base *ModelType) *typeBuilder {
	if base == nil {
		return b
	}
	b.base = base
	b.props = append(append([]Property(nil), base.props...), b.props...)
	if base.explicitMap {
		b.keyPaths = base.keyPaths.Clone()
	}
	for k, v := range base.transformers {
		b.transformers[k] = v
	}
	for k := range base.mandatory {
		b.mandatory[k] = struct{}{}
	}
	for k, v := range base.validators {
		b.validators[k] = v
	}
	b.validate = append(append([]ModelValidateFunc(nil), base.validate...), b.validate...)
	for k, v := range base.mergers {
		b.mergers[k] = v
	}
	return b
}

// Property declares a property. Redeclaring a name (for example one inherited
// from the base) replaces it in place.
func (b *typeBuilder) Property(name string, opts ...PropertyOption) *typeBuilder {
	p := Property{Name: name}
	for _, o := range opts {
		o(&p)
	}
	for i := range b.props {
		if b.props[i].Name == name {
			b.props[i] = p
			return b
		}
	}
	b.props = append(b.props, p)
	return b
}

// KeyPath maps a property to one or more dotted key paths. The first call on a
// subtype of an identity-mapped base starts from the base's identity map.
func (b *typeBuilder) KeyPath(property string, paths ...string) *typeBuilder {
	if b.keyPaths == nil {
		b.keyPaths = KeyPathMap{}
		if b.base != nil {
			b.keyPaths = IdentityMap(b.base)
		}
	}
	b.keyPaths[property] = append(KeyPaths(nil), paths...)
	return b
}

// KeyPaths replaces the whole key-path map.
func (b *typeBuilder) KeyPaths(m KeyPathMap) *typeBuilder {
	b.keyPaths = m.Clone()
	if b.keyPaths == nil {
		b.keyPaths = KeyPathMap{}
	}
	return b
}

// Transform registers the transformer for a property.
func (b *typeBuilder) Transform(property string, t *Transformer) *typeBuilder {
	if t == nil {
		delete(b.transformers, property)
		return b
	}
	b.transformers[property] = t
	return b
}

// Mandatory marks one or more properties as mandatory.
func (b *typeBuilder) Mandatory(names ...string) *typeBuilder {
	for _, n := range names {
		b.mandatory[n] = struct{}{}
	}
	return b
}

// ValidateProperty registers a per-property validation hook.
func (b *typeBuilder) ValidateProperty(property string, fn ValidateFunc) *typeBuilder {
	if fn == nil {
		return b
	}
	b.validators[property] = fn
	return b
}

// Validate adds a whole-instance validation hook, run after property hooks.
func (b *typeBuilder) Validate(fn ModelValidateFunc) *typeBuilder {
	if fn == nil {
		return b
	}
	b.validate = append(b.validate, fn)
	return b
}

// MergeProperty overrides the merge policy of a property.
func (b *typeBuilder) MergeProperty(property string, fn MergeFunc) *typeBuilder {
	if fn == nil {
		return b
	}
	b.mergers[property] = fn
	return b
}

// Resolve makes the type a class-cluster base: fn picks the concrete type for
// each input mapping before key paths are applied.
func (b *typeBuilder) Resolve(fn ResolveFunc) *typeBuilder {
	if fn == nil {
		b.resolve = nil
		return b
	}
	b.resolve = func(tree map[string]any, _ *Registry) (*ModelType, error) { return fn(tree), nil }
	return b
}

// ClusterVariant binds a discriminator tag to a registered model type name.
type ClusterVariant struct {
	tag      string
	typeName string
}

// Variant constructs a ClusterVariant.
func Variant(tag, typeName string) ClusterVariant {
	return ClusterVariant{tag: tag, typeName: typeName}
}

// Discriminator makes the type a class-cluster base keyed by a string field of
// the input mapping. Variant type names are looked up in the adapter's
// registry at decode time, so variants may extend the base being built.
func (b *typeBuilder) Discriminator(key string, vars ...ClusterVariant) *typeBuilder {
	mapping := make(map[string]string, len(vars))
	for _, v := range vars {
		if v.tag == "" || v.typeName == "" {
			continue
		}
		mapping[v.tag] = v.typeName
	}
	b.resolve = func(tree map[string]any, reg *Registry) (*ModelType, error) {
		ptr := RootPath().Field(key).Pointer()
		tag, _ := tree[key].(string)
		if tag == "" {
			return nil, Issues{{Path: ptr, Code: CodeNoConcreteType, Message: i18n.T(CodeNoConcreteType, nil), Hint: "discriminator missing"}}
		}
		name, ok := mapping[tag]
		if !ok {
			return nil, Issues{{Path: ptr, Code: CodeNoConcreteType, Message: i18n.T(CodeNoConcreteType, nil), Hint: "unknown variant: '" + tag + "'"}}
		}
		t, ok := reg.Lookup(name)
		if !ok {
			return nil, Issues{{Path: ptr, Code: CodeNoAdapterForType, Message: i18n.T(CodeNoAdapterForType, nil), Hint: "variant type '" + name + "' is not registered"}}
		}
		return t, nil
	}
	return b
}

// Build validates the builder and returns a ModelType.
func (b *typeBuilder) Build() (*ModelType, error) {
	var iss Issues
	if b.name == "" {
		iss = AppendIssues(iss, NewIssue(CodeUnresolvable, "/", "model type name is empty"))
	}
	index := make(map[string]int, len(b.props))
	for i, p := range b.props {
		if p.Name == "" {
			iss = AppendIssues(iss, NewIssue(CodeUnresolvable, "/", "property name is empty"))
			continue
		}
		if _, dup := index[p.Name]; dup {
			it := RootPath().Issue(CodeUnresolvable, "duplicate property", "type", b.name)
			it.Property = p.Name
			iss = AppendIssues(iss, it)
			continue
		}
		index[p.Name] = i
	}
	t := &ModelType{
		name:         b.name,
		base:         b.base,
		props:        append([]Property(nil), b.props...),
		index:        index,
		transformers: copyMap(b.transformers),
		mandatory:    copyMap(b.mandatory),
		validators:   copyMap(b.validators),
		validate:     append([]ModelValidateFunc(nil), b.validate...),
		mergers:      copyMap(b.mergers),
		resolve:      b.resolve,
	}
	if b.keyPaths != nil {
		t.keyPaths = b.keyPaths.Clone()
		t.explicitMap = true
	} else {
		t.keyPaths = IdentityMap(t)
	}
	iss = AppendIssues(iss, t.keyPaths.validate(t)...)
	iss = AppendIssues(iss, b.checkNames(t, "transformer", keysOf(t.transformers))...)
	iss = AppendIssues(iss, b.checkNames(t, "mandatory", keysOf(t.mandatory))...)
	iss = AppendIssues(iss, b.checkNames(t, "validator", keysOf(t.validators))...)
	iss = AppendIssues(iss, b.checkNames(t, "merge hook", keysOf(t.mergers))...)
	if len(iss) > 0 {
		return nil, iss
	}
	return t, nil
}

// MustBuild is like Build but panics on error.
func (b *typeBuilder) MustBuild() *ModelType {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

func (b *typeBuilder) checkNames(t *ModelType, what string, names []string) Issues {
	var iss Issues
	for _, n := range names {
		p, ok := t.Property(n)
		if ok && !p.Derived {
			continue
		}
		it := NewIssue(CodeUnresolvable, "/", what+" names an undeclared or derived property")
		it.Property = n
		iss = AppendIssues(iss, it)
	}
	return iss
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func keysOf[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
