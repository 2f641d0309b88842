package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var uploadsSaved = promauto.NewCounter(prometheus.CounterOpts{
	Name: "uploads_saved_total",
	Help: "Number of uploaded files written to disk",
})

var interactionsStored = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "interactions_stored_total",
	Help: "Interaction records written to the vector store, by type",
}, []string{"type"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementUploadsSaved() {
	uploadsSaved.Inc()
}

func IncrementInteractionsStored(recordType string) {
	interactionsStored.WithLabelValues(recordType).Inc()
}

var chatDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "chat_request_duration_seconds",
	Help:    "Total time spent answering one chat request.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"path_kind"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureChatMetrics(pathKind string, timeElapsed time.Duration) {
	chatDuration.WithLabelValues(pathKind).Observe(timeElapsed.Seconds())
}
