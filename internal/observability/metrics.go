package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ListingsParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outlet_listings_parsed_total",
			Help: "Listing rows turned into structured records",
		},
	)
	ListingsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outlet_listings_rejected_total",
			Help: "Listing rows that could not be parsed, by reason",
		},
		[]string{"reason"},
	)
)

// Registry holds the outlet collectors. It is separate from the default
// registry so tests can build handlers repeatedly.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(ListingsParsed, ListingsRejected)
}

// Handler serves the collectors in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
