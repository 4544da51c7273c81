package transform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mantle "github.com/reoring/gomantle"
	"github.com/reoring/gomantle/transform"
)

func TestValueMapping_Defaults(t *testing.T) {
	ctx := context.Background()
	tr := transform.ValueMapping(map[string]any{"on": 1, "off": 0}, -1, "unknown")

	v, err := tr.Forward(ctx, "on")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = tr.Forward(ctx, "dimmed")
	require.NoError(t, err)
	assert.Equal(t, -1, v)

	k, err := tr.Reverse(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "off", k)

	k, err = tr.Reverse(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "unknown", k)
}

func TestArray_FailingIndexInPath(t *testing.T) {
	ctx := context.Background()
	tr := transform.Array(transform.Integer())

	v, err := tr.Forward(ctx, []any{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, v)

	back, err := tr.Reverse(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "2"}, back)

	_, err = tr.Forward(ctx, []any{"1", "x", "3"})
	iss, ok := mantle.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/1", iss[0].Path)
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))
}

func TestArray_OfForwardOnlyIsForwardOnly(t *testing.T) {
	tr := transform.Array(mantle.ForwardTransformer(nil))
	assert.False(t, tr.Reversible())
}

func TestRegistry_LookupAndInverted(t *testing.T) {
	ctx := context.Background()
	r := transform.Predefined()

	assert.Equal(t, []string{"bool", "identity", "integer", "number", "rfc3339", "url"}, r.Names())

	inv, err := r.Inverted("integer")
	require.NoError(t, err)
	v, err := inv.Forward(ctx, int64(9))
	require.NoError(t, err)
	assert.Equal(t, "9", v)

	_, err = r.Inverted("missing")
	assert.True(t, errors.Is(err, mantle.ErrUnresolvable))

	fwd := mantle.ForwardTransformer(nil)
	require.NoError(t, r.Register("forward-only", fwd))
	_, err = r.Inverted("forward-only")
	assert.True(t, errors.Is(err, mantle.ErrNotReversible))
	got, ok := r.Lookup("forward-only")
	require.True(t, ok)
	assert.Same(t, fwd, got)
	assert.False(t, got.Reversible())

	assert.Error(t, r.Register("", fwd))
}
