package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImageOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eztech_media",
		Name:      "image_ops_total",
		Help:      "Image gateway operations by operation and outcome.",
	}, []string{"op", "outcome"})
	FetchFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eztech_media",
		Name:      "fetch_fallback_total",
		Help:      "Fetches answered with the placeholder image, by reason.",
	}, []string{"reason"})
	WipeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eztech_media",
		Name:      "wipe_failures_total",
		Help:      "Individual blob deletes that failed during a wipe.",
	})
	MailSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eztech_media",
		Name:      "mail_sent_total",
		Help:      "Transactional mails by outcome.",
	}, []string{"outcome"})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(ImageOps, FetchFallbacks, WipeFailures, MailSent)
}

// Serve starts a /metrics server on the given addr (e.g., ":9090"). Blocks; run in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}

// Outcome labels shared by the gateways.
func Outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
