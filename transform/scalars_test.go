package transform_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mantle "github.com/reoring/gomantle"
	"github.com/reoring/gomantle/transform"
)

func TestURL_RoundTrip(t *testing.T) {
	ctx := context.Background()
	tr := transform.URL()

	v, err := tr.Forward(ctx, "https://example.com/a?b=1")
	require.NoError(t, err)
	u, ok := v.(*url.URL)
	require.True(t, ok)
	assert.Equal(t, "example.com", u.Host)

	back, err := tr.Reverse(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a?b=1", back)
}

func TestURL_Failures(t *testing.T) {
	ctx := context.Background()
	tr := transform.URL()

	_, err := tr.Forward(ctx, "http://[::1")
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))

	_, err = tr.Forward(ctx, 42)
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))

	for _, s := range []string{"not a url", "http//missing-colon", "/relative/path"} {
		_, err = tr.Forward(ctx, s)
		assert.True(t, errors.Is(err, mantle.ErrInvalidInput), s)
	}
	v, err := tr.Forward(ctx, "mailto:someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, "mailto", v.(*url.URL).Scheme)

	_, err = tr.Reverse(ctx, &url.URL{})
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))

	v, err = tr.Reverse(ctx, (*url.URL)(nil))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEnum_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	tr := transform.Enum(map[string]any{"Negative": -1, "Zero": 0, "Positive": 1})

	v, err := tr.Forward(ctx, "positive")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	name, err := tr.Reverse(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, "Negative", name)

	_, err = tr.Forward(ctx, "sideways")
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))

	_, err = tr.Reverse(ctx, 7)
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))
}

func TestNumberAndInteger(t *testing.T) {
	ctx := context.Background()

	f, err := transform.Number().Forward(ctx, "1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)
	s, err := transform.Number().Reverse(ctx, 1.5)
	require.NoError(t, err)
	assert.Equal(t, "1.5", s)

	n, err := transform.Integer().Forward(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	n, err = transform.Integer().Forward(ctx, json.Number("7"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	s, err = transform.Integer().Reverse(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "3", s)
	s, err = transform.Integer().Reverse(ctx, uint(5))
	require.NoError(t, err)
	assert.Equal(t, "5", s)
	s, err = transform.Integer().Reverse(ctx, uint64(9))
	require.NoError(t, err)
	assert.Equal(t, "9", s)
	_, err = transform.Integer().Reverse(ctx, uint64(math.MaxUint64))
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))

	_, err = transform.Integer().Forward(ctx, "forty-two")
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))
	_, err = transform.Number().Forward(ctx, true)
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))
}

func TestBool(t *testing.T) {
	ctx := context.Background()
	tr := transform.Bool()

	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{"false", false},
		{json.Number("1"), true},
		{0.0, false},
	}
	for _, c := range cases {
		v, err := tr.Forward(ctx, c.in)
		require.NoError(t, err, "input %v", c.in)
		assert.Equal(t, c.want, v, "input %v", c.in)
	}

	_, err := tr.Forward(ctx, "maybe")
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))
}

func TestTimeRFC3339(t *testing.T) {
	ctx := context.Background()
	tr := transform.TimeRFC3339()

	v, err := tr.Forward(ctx, "2024-05-01T10:00:00+09:00")
	require.NoError(t, err)
	tm, ok := v.(time.Time)
	require.True(t, ok)

	back, err := tr.Reverse(ctx, tm)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T01:00:00Z", back)

	_, err = tr.Forward(ctx, "yesterday")
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))
}

func TestNilPassesThrough(t *testing.T) {
	ctx := context.Background()
	for name, tr := range map[string]*mantle.Transformer{
		"identity": transform.Identity(),
		"url":      transform.URL(),
		"number":   transform.Number(),
		"integer":  transform.Integer(),
		"bool":     transform.Bool(),
		"rfc3339":  transform.TimeRFC3339(),
	} {
		v, err := tr.Forward(ctx, nil)
		require.NoError(t, err, name)
		assert.Nil(t, v, name)
		v, err = tr.Reverse(ctx, nil)
		require.NoError(t, err, name)
		assert.Nil(t, v, name)
	}
}
