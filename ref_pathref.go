package mantle

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	// Issue creates an Issue at this path. kv are key/value pairs stored in
	// Params.
	Issue(code, hint string, kv ...any) Issue
}

// RootPath returns the PathRef for the tree root ("/").
func RootPath() PathRef { return &pathRef{parts: nil} }

// KeyPathRef converts a dotted key path ("nested.name") into a PathRef.
func KeyPathRef(keyPath string) PathRef {
	var p PathRef = RootPath()
	if keyPath == "" {
		return p
	}
	for _, seg := range strings.Split(keyPath, ".") {
		p = p.Field(seg)
	}
	return p
}

type pathRef struct {
	parts []string
}

func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p *pathRef) Issue(code, hint string, kv ...any) Issue {
	it := NewIssue(code, p.Pointer(), hint)
	if len(kv) > 1 {
		it.Params = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			it.Params[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return it
}
