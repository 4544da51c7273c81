package wire_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mantle "github.com/reoring/gomantle"
	"github.com/reoring/gomantle/transform"
	"github.com/reoring/gomantle/wire"
)

func TestDecodeJSON_KeepsNumbers(t *testing.T) {
	v, err := wire.DecodeJSON([]byte(`{"a":{"b":[1,2.5,null]},"c":"x"}`))
	require.NoError(t, err)

	want := map[string]any{
		"a": map[string]any{"b": []any{json.Number("1"), json.Number("2.5"), nil}},
		"c": "x",
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_Rejects(t *testing.T) {
	for _, in := range []string{`{"a":`, `{"a":1} {"b":2}`, ``} {
		_, err := wire.DecodeJSON([]byte(in))
		assert.True(t, errors.Is(err, mantle.ErrInvalidInput), "input %q", in)
	}
	_, err := wire.DecodeJSONObject([]byte(`[1,2]`))
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))
}

func TestEncodeJSON_SortedKeys(t *testing.T) {
	b, err := wire.EncodeJSON(map[string]any{"b": 1, "a": map[string]any{"d": true, "c": nil}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"c":null,"d":true},"b":1}`, string(b))
}

func TestDecodeYAML_Normalizes(t *testing.T) {
	src := "user:\n  name: ada\n  tags: [x, y]\n1: dropped\n"
	v, err := wire.DecodeYAML([]byte(src))
	require.NoError(t, err)

	want := map[string]any{
		"user": map[string]any{"name": "ada", "tags": []any{"x", "y"}},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	_, err = wire.DecodeYAML([]byte("a: [1, 2"))
	assert.True(t, errors.Is(err, mantle.ErrInvalidInput))
}

func TestEncodeYAML(t *testing.T) {
	b, err := wire.EncodeYAML(map[string]any{"nested": map[string]any{"name": "alpha"}})
	require.NoError(t, err)
	assert.Equal(t, "nested:\n  name: alpha\n", string(b))
}

func TestJSONThroughAdapter(t *testing.T) {
	ctx := context.Background()
	item := mantle.Type("Item").
		Property("name").
		Property("count", mantle.DefaultValue(int64(1))).
		KeyPath("name", "title").
		KeyPath("count", "meta.count").
		Transform("count", transform.Integer()).
		MustBuild()

	tree, err := wire.DecodeJSON([]byte(`{"title":"pen","meta":{"count":"3"}}`))
	require.NoError(t, err)
	m, err := mantle.Decode(ctx, item, tree)
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.Values()["count"])

	out, err := mantle.Encode(ctx, m)
	require.NoError(t, err)
	b, err := wire.EncodeJSON(out)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"count":"3"`))
	assert.JSONEq(t, `{"title":"pen","meta":{"count":"3"}}`, string(b))
}
