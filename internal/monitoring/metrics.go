package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"WardrobeScanner/internal/ports"
)

var _ ports.ImportMetrics = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the importer.
type Metrics struct {
	DocumentsProcessed prometheus.Counter
	DocumentsSkipped   *prometheus.CounterVec
	CandidatesTotal    prometheus.Counter
	ParserFallbacks    *prometheus.CounterVec
}

// NewMetrics registers the metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "wardrobe_documents_processed_total",
			Help: "The total number of order messages run through extraction",
		}),
		DocumentsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wardrobe_documents_skipped_total",
			Help: "The total number of order messages skipped before extraction",
		}, []string{"reason"}), // e.g., 'already_imported', 'non_transactional'
		CandidatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "wardrobe_candidates_found_total",
			Help: "The total number of product candidates found before deduplication",
		}),
		ParserFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wardrobe_parser_fallbacks_total",
			Help: "The total number of documents a retailer parser handed to the generic parser",
		}, []string{"parser"}),
	}
}

func (m *Metrics) DocumentProcessed() {
	m.DocumentsProcessed.Inc()
}

func (m *Metrics) DocumentSkipped(reason string) {
	m.DocumentsSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) CandidatesFound(count int) {
	m.CandidatesTotal.Add(float64(count))
}

func (m *Metrics) ParserFallback(parser string) {
	m.ParserFallbacks.WithLabelValues(parser).Inc()
}
