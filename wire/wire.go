// Package wire turns JSON and YAML documents into the generic trees the
// mantle adapters consume, and back.
//
// Trees use map[string]any for mappings, []any for lists and string, bool,
// json.Number (JSON) or the YAML scalar types for leaves.
package wire

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	mantle "github.com/reoring/gomantle"
)

// DecodeJSON parses a single JSON document. Numbers are kept as json.Number
// so integers survive the round trip unchanged.
func DecodeJSON(data []byte) (any, error) {
	return DecodeJSONReader(bytes.NewReader(data))
}

// DecodeJSONReader parses a single JSON document from r. Trailing data after
// the document is rejected.
func DecodeJSONReader(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, invalid("malformed JSON", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, invalid("trailing data after JSON document", err)
	}
	return v, nil
}

// DecodeJSONObject is DecodeJSON restricted to a top-level object.
func DecodeJSONObject(data []byte) (map[string]any, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("expected a JSON object", nil)
	}
	return m, nil
}

// EncodeJSON renders a tree as compact JSON with sorted keys.
func EncodeJSON(tree any) ([]byte, error) {
	b, err := j.Marshal(tree)
	if err != nil {
		return nil, invalid("tree cannot be rendered as JSON", err)
	}
	return b, nil
}

// DecodeYAML parses a single YAML document. Mapping keys that are not strings
// are dropped.
func DecodeYAML(data []byte) (any, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, invalid("malformed YAML", err)
	}
	return yamlNormalizeValue(node), nil
}

// EncodeYAML renders a tree as YAML.
func EncodeYAML(tree any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return nil, invalid("tree cannot be rendered as YAML", err)
	}
	if err := enc.Close(); err != nil {
		return nil, invalid("tree cannot be rendered as YAML", err)
	}
	return buf.Bytes(), nil
}

func invalid(hint string, cause error) error {
	it := mantle.NewIssue(mantle.CodeInvalidInput, "/", hint)
	it.Cause = cause
	return mantle.Issues{it}
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
