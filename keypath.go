package mantle

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeyPaths lists the dotted key paths a property is stored under. A single
// entry is the common case; several entries feed the property's transformer an
// ordered []any tuple.
type KeyPaths []string

// Paths is shorthand for building KeyPaths.
func Paths(paths ...string) KeyPaths { return KeyPaths(paths) }

// UnmarshalYAML accepts either a single string or a list of strings.
func (k *KeyPaths) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s == "" {
			*k = KeyPaths{}
			return nil
		}
		*k = KeyPaths{s}
		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}
		*k = arr
		return nil
	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML emits a single string when there is one path, otherwise a list.
func (k KeyPaths) MarshalYAML() (any, error) {
	if len(k) == 1 {
		return k[0], nil
	}
	return []string(k), nil
}

// KeyPathMap maps property names to the key paths they occupy in the external
// tree. A property absent from the map is neither serialized nor deserialized.
type KeyPathMap map[string]KeyPaths

// Resolve returns the key paths of a property (nil when it is not mapped).
func (m KeyPathMap) Resolve(property string) KeyPaths {
	if m == nil {
		return nil
	}
	return m[property]
}

// Clone returns a deep copy of the map.
func (m KeyPathMap) Clone() KeyPathMap {
	if m == nil {
		return nil
	}
	out := make(KeyPathMap, len(m))
	for k, v := range m {
		out[k] = append(KeyPaths(nil), v...)
	}
	return out
}

// IdentityMap maps every Permanent, non-derived property of the catalog to its
// own name.
func IdentityMap(c Catalog) KeyPathMap {
	out := KeyPathMap{}
	for _, p := range c.Properties() {
		if !p.Permanent() {
			continue
		}
		out[p.Name] = KeyPaths{p.Name}
	}
	return out
}

// ParseKeyPathMapYAML loads a KeyPathMap from YAML such as:
//
//	name: username
//	nestedName: nested.name
//	range: [location, length]
func ParseKeyPathMapYAML(data []byte) (KeyPathMap, error) {
	var m KeyPathMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse key path YAML: %w", err)
	}
	if m == nil {
		m = KeyPathMap{}
	}
	return m, nil
}

// validate checks that every mapped name is a declared, stored property and
// that no two key paths can collide when written into one tree.
func (m KeyPathMap) validate(c Catalog) Issues {
	props := make(map[string]Property)
	for _, p := range c.Properties() {
		props[p.Name] = p
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	type owned struct{ path, property string }
	var all []owned
	var iss Issues
	for _, name := range names {
		p, ok := props[name]
		if !ok || p.Derived {
			it := NewIssue(CodeUnresolvable, "/", "key path map names an undeclared or derived property")
			it.Property = name
			iss = AppendIssues(iss, it)
			continue
		}
		paths := m[name]
		if len(paths) == 0 {
			it := NewIssue(CodeUnresolvable, "/", "property mapped to no key paths")
			it.Property = name
			iss = AppendIssues(iss, it)
			continue
		}
		for _, kp := range paths {
			if !validKeyPath(kp) {
				it := NewIssue(CodeUnresolvable, "/", "malformed key path: '"+kp+"'")
				it.Property = name
				iss = AppendIssues(iss, it)
				continue
			}
			all = append(all, owned{path: kp, property: name})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].path < all[j].path })
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.path == b.path || strings.HasPrefix(b.path, a.path+".") {
				it := NewIssue(CodeConflictingKeyPath, KeyPathRef(b.path).Pointer(), "'"+b.path+"' collides with '"+a.path+"' ("+a.property+")")
				it.Property = b.property
				iss = AppendIssues(iss, it)
			}
		}
	}
	return iss
}

func validKeyPath(kp string) bool {
	if kp == "" {
		return false
	}
	for _, seg := range strings.Split(kp, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

// ReadKeyPath descends mappings along a dotted key path. A missing segment, or
// an intermediate value that is not a mapping, reports ok=false.
func ReadKeyPath(tree map[string]any, keyPath string) (any, bool) {
	if tree == nil || keyPath == "" {
		return nil, false
	}
	cur := tree
	segs := strings.Split(keyPath, ".")
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// WriteKeyPath stores v at a dotted key path, creating intermediate mappings
// as needed. An intermediate segment already holding a non-mapping value is a
// conflicting key path.
func WriteKeyPath(tree map[string]any, keyPath string, v any) error {
	cur, last, err := descendForWrite(tree, keyPath, true)
	if err != nil {
		return err
	}
	cur[last] = v
	return nil
}

// checkWritable reports whether keyPath could be written without touching tree.
func checkWritable(tree map[string]any, keyPath string) error {
	_, _, err := descendForWrite(tree, keyPath, false)
	return err
}

func descendForWrite(tree map[string]any, keyPath string, create bool) (map[string]any, string, error) {
	if tree == nil || !validKeyPath(keyPath) {
		it := NewIssue(CodeUnresolvable, "/", "malformed key path: '"+keyPath+"'")
		return nil, "", Issues{it}
	}
	segs := strings.Split(keyPath, ".")
	cur := tree
	for i, seg := range segs[:len(segs)-1] {
		v, ok := cur[seg]
		if !ok || v == nil {
			if !create {
				return cur, segs[len(segs)-1], nil
			}
			next := map[string]any{}
			cur[seg] = next
			cur = next
			continue
		}
		next, ok := v.(map[string]any)
		if !ok {
			at := strings.Join(segs[:i+1], ".")
			it := NewIssue(CodeConflictingKeyPath, KeyPathRef(at).Pointer(), "'"+at+"' already holds a non-mapping value")
			return nil, "", Issues{it}
		}
		cur = next
	}
	return cur, segs[len(segs)-1], nil
}
