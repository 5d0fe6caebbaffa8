package analysis

import (
	"encoding/json"
	"time"
)

const (
	SourceTypeJob    = "job"
	SourceTypeResume = "resume"
)

// Record is one completed analysis run. Records are immutable; re-analysis
// inserts a new row rather than updating an old one.
type Record struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	SourceType string          `json:"sourceType"`
	SourceID   string          `json:"sourceId"`
	Result     json.RawMessage `json:"result,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
	SourceText string          `json:"-"`
	Provider   string          `json:"provider,omitempty"`
	Model      string          `json:"model,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
