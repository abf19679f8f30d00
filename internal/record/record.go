package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deckpilot/deckpilot/constants"
	"github.com/deckpilot/deckpilot/internal/fingerprint"
)

// Record is one generation attempt for one source file. Records are never
// deleted; a forced re-run supersedes the old record and appends a new one,
// keeping the full audit trail.
type Record struct {
	ID           uuid.UUID                  `json:"id"`
	SourcePath   string                     `json:"source_path"`
	FileName     string                     `json:"file_name"`
	ContentHash  string                     `json:"content_hash"`
	GenerationID string                     `json:"generation_id,omitempty"`
	RemoteURL    string                     `json:"remote_url,omitempty"`
	Status       constants.GenerationStatus `json:"status"`
	FailureCause string                     `json:"failure_cause,omitempty"`
	ExportStatus constants.ExportStatus     `json:"export_status"`
	ExportPath   string                     `json:"export_path,omitempty"`
	ExportMethod string                     `json:"export_method,omitempty"`
	Superseded   bool                       `json:"superseded,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// New creates a pending, not-yet-exported record for the given key.
func New(key fingerprint.Key, fileName string) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:           uuid.New(),
		SourcePath:   key.Path,
		FileName:     fileName,
		ContentHash:  key.Hash,
		Status:       constants.StatusPending,
		ExportStatus: constants.ExportNotExported,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Key reconstructs the fingerprint key this record was created under.
func (r *Record) Key() fingerprint.Key {
	return fingerprint.Key{Path: r.SourcePath, Hash: r.ContentHash}
}

// AdvanceStatus moves the record forward in its lifecycle. Transitions out of
// completed/failed are rejected; UpdatedAt refreshes on every change.
func (r *Record) AdvanceStatus(next constants.GenerationStatus) error {
	if !r.Status.CanAdvanceTo(next) {
		return fmt.Errorf("illegal status transition %s -> %s", r.Status, next)
	}
	if r.Status != next {
		r.Status = next
		r.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// Fail moves the record to failed and stores the cause.
func (r *Record) Fail(cause string) error {
	if err := r.AdvanceStatus(constants.StatusFailed); err != nil {
		return err
	}
	r.FailureCause = cause
	return nil
}

// MarkExported records a successful export. The generation must already be
// completed; exported implies completed.
func (r *Record) MarkExported(path, method string) error {
	if r.Status != constants.StatusCompleted {
		return fmt.Errorf("cannot mark exported while status is %s", r.Status)
	}
	r.ExportStatus = constants.ExportExported
	r.ExportPath = path
	r.ExportMethod = method
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkExportFailed records that every export strategy failed. The generation
// itself stays completed.
func (r *Record) MarkExportFailed() {
	r.ExportStatus = constants.ExportFailed
	r.UpdatedAt = time.Now().UTC()
}

// Exported reports whether this record ended fully done: generated and a
// local artifact materialized.
func (r *Record) Exported() bool {
	return r.Status == constants.StatusCompleted && r.ExportStatus == constants.ExportExported
}
