package service

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// snippetsCreated counts created snippets. Labels: language (lowercased)
	snippetsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snipshare",
		Subsystem: "snippets",
		Name:      "created_total",
		Help:      "Total snippets created",
	}, []string{"language"})

	snippetUpvotes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "snipshare",
		Subsystem: "snippets",
		Name:      "upvotes_total",
		Help:      "Total upvotes recorded",
	})
)

// maxLanguageLabel bounds label cardinality from free-text languages.
const maxLanguageLabel = 32

func normalizeLanguage(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	if l == "" {
		return "unknown"
	}
	if len(l) > maxLanguageLabel {
		return "other"
	}
	return l
}
