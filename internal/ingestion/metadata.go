package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/a11y-checker/internal/fetch"
)

// Metadata describes where a document came from and what it looks like
type Metadata struct {
	Source    string         `json:"source"`
	URL       string         `json:"url,omitempty"`
	Timestamp string         `json:"timestamp"` // RFC3339 format
	Hash      string         `json:"hash"`      // SHA256 hex digest
	Bytes     int            `json:"bytes"`
	Truncated bool           `json:"truncated,omitempty"`
	Summary   *fetch.Summary `json:"summary,omitempty"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, source string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Bytes:     len(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
