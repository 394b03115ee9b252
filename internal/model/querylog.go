package model

// QueryLog is an append-only audit record of one answered (or rejected)
// question. Writing it is best effort and never affects the answer itself.
type QueryLog struct {
	ID          int64     `json:"id"`
	Question    string    `json:"question"`
	Response    string    `json:"response"`
	QueryVector []float32 `json:"query_vector"`
	DocumentIDs []string  `json:"document_ids"`
	LatencyMs   int64     `json:"latency_ms"`
	ClientIP    string    `json:"client_ip"`
	ClientAgent string    `json:"client_agent"`
	Ctime       int64     `json:"ctime"`
}
