// Package metrics records parse activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/HartBrook/lexchunk/internal/parser"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lexchunk"

// Recorder collects parse metrics in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	documents     prometheus.Counter
	chunks        *prometheus.CounterVec
	lines         *prometheus.CounterVec
	emptyArticles prometheus.Counter
	duration      prometheus.Histogram
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_parsed_total",
			Help:      "Documents parsed.",
		}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_emitted_total",
			Help:      "Article chunks emitted, by kind (base or sub).",
		}, []string{"kind"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Normalized input lines, by how the parser used them.",
		}, []string{"disposition"}),
		emptyArticles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_articles_total",
			Help:      "Articles dropped because their body was empty.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time to parse one document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	r.registry.MustRegister(r.documents, r.chunks, r.lines, r.emptyArticles, r.duration)
	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveParse records one completed parse.
func (r *Recorder) ObserveParse(res *parser.Result, elapsed time.Duration) {
	r.documents.Inc()
	r.duration.Observe(elapsed.Seconds())
	r.emptyArticles.Add(float64(res.EmptyArticles))

	var base, sub int
	for _, c := range res.Chunks {
		if c.Metadata.IsSubArticle {
			sub++
		} else {
			base++
		}
	}
	r.chunks.WithLabelValues("base").Add(float64(base))
	r.chunks.WithLabelValues("sub").Add(float64(sub))

	r.lines.WithLabelValues("heading").Add(float64(res.Headings))
	r.lines.WithLabelValues("continuation").Add(float64(res.Continuations))
	r.lines.WithLabelValues("article").Add(float64(res.Articles))
	r.lines.WithLabelValues("body").Add(float64(res.BodyLines()))
	r.lines.WithLabelValues("discarded").Add(float64(res.Discarded))
}

// WriteTextfile writes the current metrics in the text exposition format,
// for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
