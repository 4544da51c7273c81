package mantle_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mantle "github.com/reoring/gomantle"
)

func upper(_ context.Context, v any) (any, error) { return strings.ToUpper(v.(string)), nil }
func lower(_ context.Context, v any) (any, error) { return strings.ToLower(v.(string)), nil }

func TestTransformer_Invert(t *testing.T) {
	ctx := context.Background()
	tr := mantle.NewTransformer(upper, lower)

	inv, err := tr.Invert()
	require.NoError(t, err)
	v, err := inv.Forward(ctx, "MiXed")
	require.NoError(t, err)
	assert.Equal(t, "mixed", v)
	v, err = inv.Reverse(ctx, "MiXed")
	require.NoError(t, err)
	assert.Equal(t, "MIXED", v)

	// the receiver keeps its direction
	v, err = tr.Forward(ctx, "MiXed")
	require.NoError(t, err)
	assert.Equal(t, "MIXED", v)
}

func TestTransformer_ForwardOnlyCannotInvert(t *testing.T) {
	ctx := context.Background()
	tr := mantle.ForwardTransformer(upper)
	assert.False(t, tr.Reversible())

	inv, err := tr.Invert()
	assert.Nil(t, inv)
	assert.True(t, errors.Is(err, mantle.ErrNotReversible))

	_, err = tr.Reverse(ctx, "x")
	assert.True(t, errors.Is(err, mantle.ErrNotReversible))

	v, err := tr.Forward(ctx, "still works")
	require.NoError(t, err)
	assert.Equal(t, "STILL WORKS", v)
}

func TestTransformer_ReversibleAppliesSameFunc(t *testing.T) {
	ctx := context.Background()
	tr := mantle.ReversibleTransformer(upper)
	v, err := tr.Reverse(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	var none *mantle.Transformer
	v, err = none.Forward(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "same", v)
}
