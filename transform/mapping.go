package transform

import (
	"context"
	"reflect"
	"sort"

	mantle "github.com/reoring/gomantle"
)

// ValueMapping looks tree strings up in table. Unknown keys map to
// defaultValue and unknown values map back to reverseDefault; neither
// direction fails.
func ValueMapping(table map[string]any, defaultValue, reverseDefault any) *mantle.Transformer {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return mantle.NewTransformer(
		func(_ context.Context, v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return defaultValue, nil
			}
			if out, ok := table[s]; ok {
				return out, nil
			}
			return defaultValue, nil
		},
		func(_ context.Context, v any) (any, error) {
			for _, k := range keys {
				if reflect.DeepEqual(table[k], v) {
					return k, nil
				}
			}
			return reverseDefault, nil
		},
	)
}

// Array applies elem to every item of a list. A failing item fails the whole
// list with the item index in the issue path. The result is reversible only
// when elem is.
func Array(elem *mantle.Transformer) *mantle.Transformer {
	forward := func(ctx context.Context, v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, invalid("expected a list", v, nil)
		}
		out := make([]any, len(arr))
		for i, item := range arr {
			r, err := elem.Forward(ctx, item)
			if err != nil {
				return nil, atIndex(i, err)
			}
			out[i] = r
		}
		return out, nil
	}
	if !elem.Reversible() {
		return mantle.ForwardTransformer(forward)
	}
	return mantle.NewTransformer(forward, func(ctx context.Context, v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, invalid("expected a list", v, nil)
		}
		out := make([]any, len(arr))
		for i, item := range arr {
			r, err := elem.Reverse(ctx, item)
			if err != nil {
				return nil, atIndex(i, err)
			}
			out[i] = r
		}
		return out, nil
	})
}

func atIndex(i int, err error) error {
	base := mantle.RootPath().Index(i).Pointer()
	if iss, ok := mantle.AsIssues(err); ok {
		return iss.Rebase(base, "")
	}
	it := mantle.NewIssue(mantle.CodeInvalidValue, base, err.Error())
	it.Cause = err
	return mantle.Issues{it}
}
