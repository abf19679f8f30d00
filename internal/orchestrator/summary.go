package orchestrator

import "github.com/deckpilot/deckpilot/internal/record"

// Per-file results.
const (
	ResultSkipped      = "skipped"
	ResultSucceeded    = "succeeded"
	ResultFailed       = "failed"
	ResultExportFailed = "export_failed"
)

// Outcome is the per-file result line.
type Outcome struct {
	Path   string
	Result string
	Err    error
	Record *record.Record
}

// Summary aggregates a run. OK() decides the process exit status: every
// discovered file must have ended generated-and-exported, now or previously.
type Summary struct {
	Discovered int
	Skipped    int
	Succeeded  int
	Failed     int
	Outcomes   []Outcome
}

func (s *Summary) record(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Result {
	case ResultSkipped:
		s.Skipped++
	case ResultSucceeded:
		s.Succeeded++
	default:
		s.Failed++
	}
}

func (s *Summary) OK() bool {
	return s.Failed == 0
}
