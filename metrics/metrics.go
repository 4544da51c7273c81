// Package metrics exports adapter activity as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	mantle "github.com/reoring/gomantle"
)

// Metrics tracks decode and encode outcomes per model type and the issue
// codes they produce. It implements mantle.Observer.
type Metrics struct {
	Decodes *prometheus.CounterVec
	Encodes *prometheus.CounterVec
	Issues  *prometheus.CounterVec
}

var _ mantle.Observer = (*Metrics)(nil)

// New creates a Metrics instance registered on reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Decodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mantle_decodes_total",
			Help: "Total number of tree to model conversions by type and result",
		}, []string{"type", "result"}),
		Encodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mantle_encodes_total",
			Help: "Total number of model to tree conversions by type and result",
		}, []string{"type", "result"}),
		Issues: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mantle_issues_total",
			Help: "Total number of issues reported by type and code, warnings included",
		}, []string{"type", "code"}),
	}
}

// ObserveDecode records one Decode call.
func (m *Metrics) ObserveDecode(typeName string, err error) {
	m.Decodes.WithLabelValues(typeName, result(err)).Inc()
}

// ObserveEncode records one Encode call.
func (m *Metrics) ObserveEncode(typeName string, err error) {
	m.Encodes.WithLabelValues(typeName, result(err)).Inc()
}

// ObserveIssue records one issue.
func (m *Metrics) ObserveIssue(typeName, code string) {
	m.Issues.WithLabelValues(typeName, code).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
