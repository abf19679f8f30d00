package constants

// GenerationStatus is the canonical status for a generation record.
type GenerationStatus string

// Stable values (these exact strings are persisted in the records file).
const (
	StatusPending    GenerationStatus = "pending"    // submitted, remote has not started
	StatusGenerating GenerationStatus = "generating" // remote reports work in progress
	StatusCompleted  GenerationStatus = "completed"  // terminal success
	StatusFailed     GenerationStatus = "failed"     // terminal failure (includes local timeout)
)

// Terminal reports whether a status admits no further transitions.
func (s GenerationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// rank orders statuses for the forward-only transition check.
func (s GenerationStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusGenerating:
		return 1
	case StatusCompleted, StatusFailed:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether s -> next is a legal forward transition.
// Re-asserting the current status is a no-op; terminal states never regress;
// pending may jump straight to a terminal state (submission can fail before
// the first poll).
func (s GenerationStatus) CanAdvanceTo(next GenerationStatus) bool {
	if next == s {
		return true
	}
	if s.Terminal() {
		return false
	}
	return next.rank() > s.rank()
}

// ExportStatus is the canonical status for the export half of a record.
type ExportStatus string

const (
	ExportNotExported ExportStatus = "not_exported"
	ExportExported    ExportStatus = "exported"
	ExportFailed      ExportStatus = "export_failed"
)
