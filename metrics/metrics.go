// Package metrics exposes the service's Prometheus counters on a private
// registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scribble_media"

type Registry struct {
	registry *prometheus.Registry

	Uploads           *prometheus.CounterVec
	Deletes           *prometheus.CounterVec
	BuilderSelections *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Media uploads by provider and outcome.",
		}, []string{"provider", "outcome"}),
		Deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletes_total",
			Help:      "Media deletions by provider and outcome.",
		}, []string{"provider", "outcome"}),
		BuilderSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_builder_selections_total",
			Help:      "Metadata builder chosen for each stored file.",
		}, []string{"builder"}),
	}

	r.registry.MustRegister(
		r.Uploads,
		r.Deletes,
		r.BuilderSelections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveSelection records which metadata builder served a call.
func (r *Registry) ObserveSelection(builder string) {
	r.BuilderSelections.WithLabelValues(builder).Inc()
}

func (r *Registry) ObserveUpload(provider string, err error) {
	r.Uploads.WithLabelValues(provider, outcome(err)).Inc()
}

func (r *Registry) ObserveDelete(provider string, err error) {
	r.Deletes.WithLabelValues(provider, outcome(err)).Inc()
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
