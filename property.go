package mantle

// StorageClass says whether a property is persisted and serialized.
type StorageClass int

const (
	StoragePermanent  StorageClass = iota // Serialized, merged and compared.
	StorageTransitory                     // Kept in memory only.
)

func (s StorageClass) String() string {
	switch s {
	case StoragePermanent:
		return "permanent"
	case StorageTransitory:
		return "transitory"
	default:
		return "unknown"
	}
}

// Ownership describes how a property holds its value. Weak properties never
// own their target; they hold a Ref and are always Transitory.
type Ownership int

const (
	OwnershipOwned Ownership = iota
	OwnershipWeak
	OwnershipAssign
)

func (o Ownership) String() string {
	switch o {
	case OwnershipOwned:
		return "owned"
	case OwnershipWeak:
		return "weak"
	case OwnershipAssign:
		return "assign"
	default:
		return "unknown"
	}
}

// Property is the statically declared descriptor of one model property.
type Property struct {
	Name      string
	Storage   StorageClass
	Ownership Ownership
	// Derived properties have no backing storage; Derive computes them on read.
	Derived bool
	Derive  func(*Model) any
	// Default is used for absent values and for values recovered after a
	// failed transform.
	Default any
	// Model names a nested model type. With Many the property holds []*Model.
	Model string
	Many  bool
}

// Permanent reports whether the property takes part in serialization, merge
// and equality.
func (p Property) Permanent() bool {
	return !p.Derived && p.Storage == StoragePermanent && p.Ownership != OwnershipWeak
}

// Catalog enumerates a model type's properties in declaration order.
type Catalog interface {
	Properties() []Property
}

// PropertyOption customizes a Property declaration.
type PropertyOption func(*Property)

// Transitory marks the property as in-memory only.
func Transitory() PropertyOption {
	return func(p *Property) { p.Storage = StorageTransitory }
}

// Weak marks the property as a non-owning reference. Weak implies Transitory.
func Weak() PropertyOption {
	return func(p *Property) {
		p.Ownership = OwnershipWeak
		p.Storage = StorageTransitory
	}
}

// Assign marks the property as a plain scalar assignment.
func Assign() PropertyOption {
	return func(p *Property) { p.Ownership = OwnershipAssign }
}

// DefaultValue sets the property's default.
func DefaultValue(v any) PropertyOption {
	return func(p *Property) { p.Default = v }
}

// DerivedFrom declares a read-only computed property without storage.
func DerivedFrom(fn func(*Model) any) PropertyOption {
	return func(p *Property) {
		p.Derived = true
		p.Derive = fn
	}
}

// Nested declares the property as holding a model of the named type.
func Nested(typeName string) PropertyOption {
	return func(p *Property) {
		p.Model = typeName
		p.Many = false
	}
}

// NestedMany declares the property as holding a []*Model of the named type.
func NestedMany(typeName string) PropertyOption {
	return func(p *Property) {
		p.Model = typeName
		p.Many = true
	}
}
