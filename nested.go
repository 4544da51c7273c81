package mantle

import "context"

// ModelTransformer converts a nested tree mapping into a *Model of the named
// type and back. The type is looked up in reg (DefaultRegistry when nil) on
// every call, so it may be registered after the transformer is created.
func ModelTransformer(reg *Registry, typeName string) *Transformer {
	if reg == nil {
		reg = DefaultRegistry
	}
	return NewTransformer(
		func(ctx context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			ad, err := reg.Adapter(typeName)
			if err != nil {
				return nil, err
			}
			d, err := ad.Decode(ctx, v)
			if err != nil {
				return nil, err
			}
			return d.Model, nil
		},
		func(ctx context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			m, ok := v.(*Model)
			if !ok || m == nil {
				return nil, Issues{NewIssue(CodeInvalidValue, "/", "expected a model of type "+typeName)}
			}
			ad, err := reg.Adapter(typeName)
			if err != nil {
				return nil, err
			}
			return ad.Encode(ctx, m)
		},
	)
}

// ModelsTransformer converts a list of nested tree mappings into []*Model and
// back. Any failing element fails the whole list, with the element index in
// the issue path.
func ModelsTransformer(reg *Registry, typeName string) *Transformer {
	one := ModelTransformer(reg, typeName)
	return NewTransformer(
		func(ctx context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			arr, ok := v.([]any)
			if !ok {
				return nil, Issues{NewIssue(CodeInvalidInput, "/", "expected a list")}
			}
			out := make([]*Model, 0, len(arr))
			for i, el := range arr {
				if el == nil {
					return nil, Issues{RootPath().Index(i).Issue(CodeInvalidValue, "null element", "type", typeName)}
				}
				m, err := one.Forward(ctx, el)
				if err != nil {
					return nil, issuesFromErr(CodeInvalidValue, RootPath().Index(i).Pointer(), "", err)
				}
				mm, _ := m.(*Model)
				out = append(out, mm)
			}
			return out, nil
		},
		func(ctx context.Context, v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			models, ok := v.([]*Model)
			if !ok {
				return nil, Issues{NewIssue(CodeInvalidValue, "/", "expected a list of "+typeName+" models")}
			}
			out := make([]any, 0, len(models))
			for i, m := range models {
				tree, err := one.Reverse(ctx, m)
				if err != nil {
					return nil, issuesFromErr(CodeInvalidValue, RootPath().Index(i).Pointer(), "", err)
				}
				out = append(out, tree)
			}
			return out, nil
		},
	)
}
