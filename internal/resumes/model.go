package resumes

import (
	"encoding/json"
	"time"
)

const (
	StatusActive = "active"

	// MaxUploadSize is the hard cap on resume files.
	MaxUploadSize = 10 << 20 // 10MB

	AnalysisCompleted = "completed"
	AnalysisFailed    = "failed"
)

// AllowedFileTypes are the accepted resume extensions (without the dot).
var AllowedFileTypes = map[string]bool{
	"pdf":  true,
	"docx": true,
	"doc":  true,
	"txt":  true,
}

// Resume is an uploaded resume file plus its extracted profile.
type Resume struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	ResumeName       string          `json:"resumeName"`
	StorageKey       string          `json:"-"`
	FileType         string          `json:"fileType"`
	OriginalFilename string          `json:"originalFilename,omitempty"`
	SizeBytes        int64           `json:"sizeBytes"`
	MimeType         string          `json:"mimeType,omitempty"`
	Version          int             `json:"version"`
	IsPrimary        bool            `json:"isPrimary"`
	ParsedContent    json.RawMessage `json:"parsedContent,omitempty"`
	Status           string          `json:"status"`
	UploadedAt       time.Time       `json:"uploadedAt"`
}
