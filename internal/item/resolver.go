// Package item locates the text content and metadata sidecar behind a
// worklist row. Files are opened per call and never held across user
// interactions.
package item

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tianyangh/annotatui/internal/worklist"
)

// ErrContentMissing means the primary text file is gone. Fatal for
// rendering that one item only.
var ErrContentMissing = errors.New("content file not found")

// Placeholder stands in for metadata fields the sidecar does not carry.
const Placeholder = "N/A"

// Metadata is the read-only sidecar for one item.
type Metadata struct {
	ID          string
	DiagramType string
	UserQuery   string
}

type sidecar struct {
	ID          json.RawMessage `json:"id"`
	DiagramType string          `json:"diagram_type"`
	UserQuery   string          `json:"user_query"`
}

// Resolver loads item files relative to the process working directory,
// matching how worklist paths are recorded by the preparation step.
type Resolver struct{}

// Content reads the primary text for a row.
func (Resolver) Content(row worklist.Row) (string, error) {
	b, err := os.ReadFile(row.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrContentMissing, row.FilePath)
		}
		return "", err
	}
	return string(b), nil
}

// Metadata reads the sidecar next to the row's content file. A missing
// sidecar is not an error: the caller gets (nil, nil) and shows a warning.
// Missing fields inside a present sidecar degrade to Placeholder.
func (Resolver) Metadata(row worklist.Row) (*Metadata, error) {
	path := filepath.Join(filepath.Dir(row.FilePath), "metadata.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var sc sidecar
	if err := json.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	m := &Metadata{
		ID:          rawToString(sc.ID),
		DiagramType: sc.DiagramType,
		UserQuery:   sc.UserQuery,
	}
	if m.ID == "" {
		m.ID = Placeholder
	}
	if m.DiagramType == "" {
		m.DiagramType = Placeholder
	}
	if m.UserQuery == "" {
		m.UserQuery = Placeholder
	}
	return m, nil
}

// rawToString renders an id that may be a JSON string or number.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
