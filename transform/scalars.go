package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	mantle "github.com/reoring/gomantle"
)

// Identity returns a reversible transformer that passes values through.
func Identity() *mantle.Transformer {
	return mantle.ReversibleTransformer(nil)
}

// URL converts URL strings into *url.URL and back.
func URL() *mantle.Transformer {
	return mantle.NewTransformer(
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			s, ok := v.(string)
			if !ok {
				return nil, invalid("expected a URL string", v, nil)
			}
			if s == "" {
				return nil, invalid("empty URL", v, nil)
			}
			u, err := url.Parse(s)
			if err != nil {
				return nil, invalid("malformed URL", v, err)
			}
			// absolute only: a scheme plus a host or opaque part
			if u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
				return nil, invalid("URL must be absolute", v, nil)
			}
			return u, nil
		},
		func(_ context.Context, v any) (any, error) {
			var u *url.URL
			switch t := v.(type) {
			case nil:
				return nil, nil
			case *url.URL:
				if t == nil {
					return nil, nil
				}
				u = t
			case url.URL:
				u = &t
			default:
				return nil, invalid("expected *url.URL", v, nil)
			}
			s := u.String()
			if s == "" {
				return nil, invalid("URL has no string form", v, nil)
			}
			return s, nil
		},
	)
}

// Enum maps names to values using a case-insensitive lookup. Unknown names
// and unknown values both fail. When several names share a value, Reverse
// yields the first name in sorted order.
func Enum(table map[string]any) *mantle.Transformer {
	names := make([]string, 0, len(table))
	for k := range table {
		names = append(names, k)
	}
	sort.Strings(names)
	return mantle.NewTransformer(
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			s, ok := v.(string)
			if !ok {
				return nil, invalid("expected an enum name", v, nil)
			}
			for _, n := range names {
				if strings.EqualFold(n, s) {
					return table[n], nil
				}
			}
			return nil, invalid("unknown enum name", v, nil)
		},
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			for _, n := range names {
				if reflect.DeepEqual(table[n], v) {
					return n, nil
				}
			}
			return nil, invalid("value has no enum name", v, nil)
		},
	)
}

// Number converts numeric strings into float64 and back.
func Number() *mantle.Transformer {
	return mantle.NewTransformer(
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			s, ok := numericText(v)
			if !ok {
				return nil, invalid("expected a numeric string", v, nil)
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, invalid("non-numeric text", v, err)
			}
			return f, nil
		},
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			f, ok := toFloat(v)
			if !ok {
				return nil, invalid("expected a number", v, nil)
			}
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		},
	)
}

// Integer converts integer strings into int64 and back.
func Integer() *mantle.Transformer {
	return mantle.NewTransformer(
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			s, ok := numericText(v)
			if !ok {
				return nil, invalid("expected an integer string", v, nil)
			}
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, invalid("non-numeric text", v, err)
			}
			return n, nil
		},
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			n, ok := toInt(v)
			if !ok {
				return nil, invalid("expected an integer", v, nil)
			}
			return strconv.FormatInt(n, 10), nil
		},
	)
}

// Bool accepts booleans, numbers (non-zero is true) and "true"/"false" text.
// Reverse always yields a bool.
func Bool() *mantle.Transformer {
	return mantle.NewTransformer(
		func(_ context.Context, v any) (any, error) {
			switch t := v.(type) {
			case nil:
				return nil, nil
			case bool:
				return t, nil
			case string:
				b, err := strconv.ParseBool(t)
				if err != nil {
					return nil, invalid("expected a boolean", v, err)
				}
				return b, nil
			}
			if f, ok := toFloat(v); ok {
				return f != 0, nil
			}
			return nil, invalid("expected a boolean", v, nil)
		},
		func(_ context.Context, v any) (any, error) {
			switch t := v.(type) {
			case nil:
				return nil, nil
			case bool:
				return t, nil
			}
			return nil, invalid("expected a boolean", v, nil)
		},
	)
}

// TimeRFC3339 converts RFC3339 strings into time.Time and back. Encoded times
// are normalized to UTC.
func TimeRFC3339() *mantle.Transformer {
	return mantle.NewTransformer(
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			s, ok := v.(string)
			if !ok {
				return nil, invalid("expected an RFC3339 string", v, nil)
			}
			t, err := parseRFC3339(s)
			if err != nil {
				return nil, invalid("invalid RFC3339 time", v, err)
			}
			return t, nil
		},
		func(_ context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			t, ok := v.(time.Time)
			if !ok {
				return nil, invalid("expected time.Time", v, nil)
			}
			return formatRFC3339Canonical(t), nil
		},
	)
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Go trims trailing zeros in RFC3339Nano
	return t.UTC().Format(time.RFC3339Nano)
}

// ---- helpers ----

func invalid(hint string, v any, cause error) error {
	it := mantle.NewIssue(mantle.CodeInvalidInput, "/", hint)
	it.Cause = cause
	it.Params = map[string]any{"value": fmt.Sprint(v)}
	return mantle.Issues{it}
}

func numericText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	if n, ok := toInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	}
	return 0, false
}
