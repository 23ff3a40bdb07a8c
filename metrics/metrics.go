package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coinafrique-scraper/utils"
)

var (
	PagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinafrique_pages_fetched_total",
			Help: "Listing pages that yielded at least one record",
		},
		[]string{"category"},
	)

	RecordsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinafrique_records_extracted_total",
			Help: "Listing records extracted from fetched pages",
		},
		[]string{"category"},
	)

	ScrapeStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinafrique_scrape_stops_total",
			Help: "Pagination loop terminations by reason",
		},
		[]string{"category", "reason"},
	)

	RawCSVLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinafrique_raw_csv_loads_total",
			Help: "Web scraper CSV loads by outcome",
		},
		[]string{"category", "outcome"},
	)

	PricesImputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coinafrique_prices_imputed_total",
			Help: "Missing prices replaced by the category mean",
		},
	)
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{PagesFetched, RecordsExtracted, ScrapeStops, RawCSVLoads, PricesImputed} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// Start registers the collectors on the default registry and serves
// /metrics on port in the background. A port that cannot be bound is
// returned; later serve errors are logged.
func Start(port string, logger *utils.Logger) error {
	if err := Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("metrics: listen :%s: %w", port, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.Serve(ln, mux); err != nil {
			logger.Error("[metrics] server on :%s stopped: %v", port, err)
		}
	}()
	return nil
}
