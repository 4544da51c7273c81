package mantle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/gomantle/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidInput       = "invalid_input"
	CodeNotReversible      = "not_reversible"
	CodeConflictingKeyPath = "conflicting_key_path"
	CodeUnresolvable       = "unresolvable"
	CodeNoConcreteType     = "no_concrete_type"
	CodeNoAdapterForType   = "no_adapter_for_type"
	CodeInvalidValue       = "invalid_value"
	CodeMissingMandatory   = "missing_mandatory"
	CodeMerge              = "merge"
	// Non-fatal: an optional property was absent from the tree and took its default.
	CodeMissing = "missing"
)

// Sentinels matched by errors.Is against Issues carrying the corresponding code.
var (
	ErrInvalidInput       = errors.New("mantle: invalid input")
	ErrNotReversible      = errors.New("mantle: transformer is not reversible")
	ErrConflictingKeyPath = errors.New("mantle: conflicting key path")
	ErrUnresolvable       = errors.New("mantle: unresolvable property or key path")
	ErrNoConcreteType     = errors.New("mantle: no concrete model type")
	ErrNoAdapterForType   = errors.New("mantle: no adapter for model type")
	ErrInvalidValue       = errors.New("mantle: invalid value")
	ErrMissingMandatory   = errors.New("mantle: mandatory property missing")
	ErrMerge              = errors.New("mantle: merge failed")
)

var sentinelByCode = map[string]error{
	CodeInvalidInput:       ErrInvalidInput,
	CodeNotReversible:      ErrNotReversible,
	CodeConflictingKeyPath: ErrConflictingKeyPath,
	CodeUnresolvable:       ErrUnresolvable,
	CodeNoConcreteType:     ErrNoConcreteType,
	CodeNoAdapterForType:   ErrNoAdapterForType,
	CodeInvalidValue:       ErrInvalidValue,
	CodeMissingMandatory:   ErrMissingMandatory,
	CodeMerge:              ErrMerge,
}

// Issue represents a single mapping, validation or merge entry.
type Issue struct {
	Path     string // JSON Pointer into the external tree (for example: /nested/name).
	Code     string // One of the codes listed above.
	Property string // Model property the issue belongs to, when known.
	Message  string
	Hint     string // Optional: remediation hints, offending values, etc.
	Cause    error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"index": 2}) for i18n and
	// observability.
	Params map[string]any
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_mandatory at /username (name)
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Property != "" {
			fmt.Fprintf(b, " (%s)", it.Property)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue carries the code behind target, or wraps a
// cause matching target.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if s, ok := sentinelByCode[it.Code]; ok && s == target {
			return true
		}
		if it.Cause != nil && errors.Is(it.Cause, target) {
			return true
		}
	}
	return false
}

// HasCode reports whether any issue carries the given code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Rebase prefixes every issue path with base (a JSON Pointer) and fills in the
// property name where it is still empty.
func (iss Issues) Rebase(base, property string) Issues {
	if len(iss) == 0 {
		return nil
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case base == "" || base == "/":
			if p == "" {
				p = "/"
			}
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		if it.Property == "" {
			it.Property = property
		}
		out = append(out, it)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// NewIssue builds an Issue with the translated message for code.
func NewIssue(code, path, hint string) Issue {
	if path == "" {
		path = "/"
	}
	return Issue{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint}
}

// issuesFromErr converts an error into Issues rooted at path. Errors that are
// not Issues are wrapped with the fallback code.
func issuesFromErr(code, path, property string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss.Rebase(path, property)
	}
	it := NewIssue(code, path, err.Error())
	it.Property = property
	it.Cause = err
	return Issues{it}
}
