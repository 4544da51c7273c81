package metrics_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mantle "github.com/reoring/gomantle"
	"github.com/reoring/gomantle/metrics"
)

func TestMetrics_CountsAdapterCalls(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	user := mantle.Type("User").
		Property("name").
		Property("email").
		Mandatory("name").
		MustBuild()
	ad := mantle.MustNewAdapter(user, mantle.WithObserver(m))

	d, err := ad.Decode(ctx, map[string]any{"name": "ada"})
	require.NoError(t, err)
	_, err = ad.Decode(ctx, map[string]any{"email": "x@example.com"})
	require.Error(t, err)
	_, err = ad.Encode(ctx, d.Model)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("User", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("User", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Encodes.WithLabelValues("User", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Issues.WithLabelValues("User", mantle.CodeMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Issues.WithLabelValues("User", mantle.CodeMissingMandatory)))
}
