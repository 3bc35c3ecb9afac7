package ingest

// Result holds the outcome of an import.
type Result struct {
	SessionsReceived  int      `json:"sessions_received"`
	SessionsInserted  int      `json:"sessions_inserted"`
	SessionsDuplicate int      `json:"sessions_duplicate"`
	SessionsSkipped   []string `json:"sessions_skipped,omitempty"`

	SetsReceived int `json:"sets_received"`

	Message string `json:"message,omitempty"`
}
