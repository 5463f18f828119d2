package model

// Line is one entry in the ingest request body. Fields are declared in
// alphabetical order so the marshaled keys come out sorted, the same
// ordering the LogDNA API receives from its other clients.
type Line struct {
	App       string         `json:"app"`
	IP        string         `json:"ip,omitempty"`
	Level     string         `json:"level,omitempty"`
	Line      string         `json:"line"`
	MAC       string         `json:"mac,omitempty"`
	Meta      map[string]any `json:"meta"`
	Timestamp string         `json:"timestamp"`
}

// Payload is the ingest request body. Each event produces a payload with
// exactly one line; there is no batching.
type Payload struct {
	Lines []Line `json:"lines"`
}
