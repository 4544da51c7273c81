package mantle

import (
	"context"

	"github.com/reoring/gomantle/i18n"
)

// TransformFunc converts one value. Failure is reported through the error;
// the returned value is ignored in that case.
type TransformFunc func(ctx context.Context, v any) (any, error)

// Transformer converts a property's value between its tree representation
// (Forward: tree -> model) and its in-memory value (Reverse: model -> tree).
// Forward-only transformers have no reverse direction.
type Transformer struct {
	forward TransformFunc
	reverse TransformFunc
}

// ForwardTransformer returns a transformer that only converts tree values into
// model values. A nil fn passes values through unchanged.
func ForwardTransformer(fn TransformFunc) *Transformer {
	return &Transformer{forward: passThrough(fn)}
}

// ReversibleTransformer returns a transformer that applies fn in both
// directions.
func ReversibleTransformer(fn TransformFunc) *Transformer {
	fn = passThrough(fn)
	return &Transformer{forward: fn, reverse: fn}
}

// NewTransformer returns a transformer with distinct forward and reverse
// functions. A nil reverse makes it forward-only.
func NewTransformer(forward, reverse TransformFunc) *Transformer {
	return &Transformer{forward: passThrough(forward), reverse: reverse}
}

// Reversible reports whether Reverse and Invert are available.
func (t *Transformer) Reversible() bool { return t != nil && t.reverse != nil }

// Forward converts a tree value into a model value.
func (t *Transformer) Forward(ctx context.Context, v any) (any, error) {
	if t == nil {
		return v, nil
	}
	return t.forward(ctx, v)
}

// Reverse converts a model value back into a tree value.
func (t *Transformer) Reverse(ctx context.Context, v any) (any, error) {
	if t == nil {
		return v, nil
	}
	if t.reverse == nil {
		return nil, Issues{{Path: "/", Code: CodeNotReversible, Message: i18n.T(CodeNotReversible, nil)}}
	}
	return t.reverse(ctx, v)
}

// Invert returns a new transformer with the directions swapped. Forward-only
// transformers cannot be inverted and fail with ErrNotReversible; the receiver
// is never modified.
func (t *Transformer) Invert() (*Transformer, error) {
	if !t.Reversible() {
		return nil, Issues{{Path: "/", Code: CodeNotReversible, Message: i18n.T(CodeNotReversible, nil), Hint: "forward-only transformer cannot be inverted"}}
	}
	return &Transformer{forward: t.reverse, reverse: t.forward}, nil
}

func passThrough(fn TransformFunc) TransformFunc {
	if fn != nil {
		return fn
	}
	return func(_ context.Context, v any) (any, error) { return v, nil }
}
