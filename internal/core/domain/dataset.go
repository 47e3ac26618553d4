package domain

import "time"

type DatasetStatus string

const (
	StatusUploaded   DatasetStatus = "uploaded"
	StatusProcessing DatasetStatus = "processing"
	StatusReady      DatasetStatus = "ready"
	StatusFailed     DatasetStatus = "failed"
)

type EnrichmentStatus string

const (
	EnrichmentNone      EnrichmentStatus = "none"
	EnrichmentPending   EnrichmentStatus = "pending"
	EnrichmentCompleted EnrichmentStatus = "completed"
	EnrichmentFailed    EnrichmentStatus = "failed"
)

// Dataset is the metadata record for one uploaded booking file.
type Dataset struct {
	ID          string           `json:"id"`
	Filename    string           `json:"filename"`
	MimeType    string           `json:"mime_type"`
	StoragePath string           `json:"storage_path"`
	RowCount    int              `json:"row_count"`
	ColumnCount int              `json:"column_count"`
	Rejected    int              `json:"rejected_rows"`
	Status      DatasetStatus    `json:"status"`
	Enrichment  EnrichmentStatus `json:"enrichment_status"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
