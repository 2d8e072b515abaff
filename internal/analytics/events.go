package analytics

import "time"

// RequestEvent is one find request remembered by the RequestQueue window.
type RequestEvent struct {
	Query     string        `json:"query"`
	Returned  int           `json:"returned"`
	Latency   time.Duration `json:"latency"`
	Timestamp time.Time     `json:"timestamp"`
}

// ZeroResult reports whether the request found nothing.
func (e RequestEvent) ZeroResult() bool {
	return e.Returned == 0
}

type Stats struct {
	TotalRequests     int64        `json:"total_requests"`
	WindowSize        int          `json:"window_size"`
	NoResultRequests  int          `json:"no_result_requests"`
	AvgLatencyMs      float64      `json:"avg_latency_ms"`
	ZeroResultQueries []QueryCount `json:"zero_result_queries"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}
