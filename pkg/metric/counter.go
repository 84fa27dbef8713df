package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace prefixes every metric of the service.
	Namespace = "toolbar"

	// RendersName counts rendered toolbars by menu and representation.
	RendersName = "renders_total"
)

// IncrementalCounter is a counter partitioned by label values.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter is an IncrementalCounter backed by a prometheus CounterVec.
type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

// Increment adds one to the series identified by the label values.
func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// NewCounterWithRegistry creates a counter in Namespace and registers it with reg.
// It panics when a counter with the same name is already registered.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: prometheus.BuildFQName(Namespace, "", name),
		Help: help,
		vec:  counter,
	}
}

// NewRendersCounter registers the toolbar render counter, labeled by menu and representation.
func NewRendersCounter(reg prometheus.Registerer) *Counter {
	return NewCounterWithRegistry(reg, RendersName, "Number of rendered toolbars.", "menu", "representation")
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
