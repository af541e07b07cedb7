package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is a persisted pipeline run.
type Snapshot struct {
	ID             string          `json:"id"`
	DatasetVersion string          `json:"dataset_version"`
	RecordCount    int             `json:"record_count"`
	SkippedRows    int             `json:"skipped_rows"`
	Result         json.RawMessage `json:"result,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
