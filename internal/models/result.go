package models

type Status string

const (
	StatusSuccess          Status = "success"
	StatusValidationFailed Status = "validation_failed"
	StatusError            Status = "error"
)

// ImportResult is returned by every network import run.
type ImportResult struct {
	JobID                 string                   `json:"job_id"`
	Status                Status                   `json:"status"`
	Message               string                   `json:"message,omitempty"`
	State                 string                   `json:"state"`
	StagingCount          int                      `json:"staging_count"`
	IndoorNetworkUpserted int                      `json:"indoor_network_upserted"`
	Errors                []map[string]interface{} `json:"errors,omitempty"`
	RowIndex              *int                     `json:"row_index,omitempty"`
	RowData               map[string]interface{}   `json:"row_data,omitempty"`
	FloorPolySync         *FloorPolySyncResult     `json:"floor_poly_sync,omitempty"`
	Trace                 string                   `json:"trace,omitempty"`
}

// FloorPolySyncResult reports the level cross-reference sync.
type FloorPolySyncResult struct {
	Status   Status         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Upserted int            `json:"upserted"`
	Skipped  []SkippedLevel `json:"skipped"`
}

type SkippedLevel struct {
	Reason        string `json:"reason"`
	LevelID       string `json:"feature_id"`
	FloorPolyID   string `json:"FloorPolyID,omitempty"`
	BuildingCSUID string `json:"buildingcsuid,omitempty"`
}

// ReconcileResult reports a pedestrian dataset reconciliation.
type ReconcileResult struct {
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	Loaded   int    `json:"loaded"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
}

// ExportResult reports where an export was written.
type ExportResult struct {
	Status      Status `json:"status"`
	Message     string `json:"message,omitempty"`
	Path        string `json:"path,omitempty"`
	DisplayName string `json:"displayname"`
	OutputDir   string `json:"output_dir,omitempty"`
}
