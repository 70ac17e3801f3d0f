package core

import "time"

const (
	CounselName          = "Counsel"
	CounselUserAgent     = "Counsel-Broker/0.1"
	CounselRepositoryURL = "https://github.com/sandevgo/counsel"
	CounselVersion       = "0.1.0"
)

// ProviderMultiple is the provider id recorded when a research run fanned
// out to more than one provider.
const ProviderMultiple = "multiple"

// ConversationEntry is one past tool interaction. Immutable once created;
// identity is its position in the newest-first history sequence. The JSON
// tags are the on-disk schema of the per-workspace history file and must
// round-trip through load, filter and persist without loss.
type ConversationEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Tool         string    `json:"tool"`
	Provider     string    `json:"provider"`
	Query        string    `json:"query"`
	Response     string    `json:"response"`
	ContextFiles []string  `json:"contextFiles,omitempty"`
	TokenCount   int       `json:"tokenCount"`
}

// ProjectContext is one whole-workspace snapshot. Replaced wholesale on
// refresh, never partially updated.
type ProjectContext struct {
	Readme     string
	Manifest   string
	Structure  string
	CapturedAt time.Time
}
