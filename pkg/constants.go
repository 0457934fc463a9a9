package pkg

// Route paths served by the API.
const (
	SnippetsPath = "/snippets"

	HealthPath    = "/health"
	LivenessPath  = "/livez"
	ReadinessPath = "/readyz"
	MetricsPath   = "/metrics"

	IndexPagePath = "/"
	DevPagePath   = "/dev"
)
