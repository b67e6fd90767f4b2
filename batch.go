package climb

// BatchOutcome records what happened to a single URL during a batch run.
// Path is set for successful saves, Reason for skips.
type BatchOutcome struct {
	URL    string `json:"url"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// BatchResult tallies a batch run. The slices are never nil so the
// persisted report always carries all three arrays.
type BatchResult struct {
	Success []BatchOutcome `json:"success"`
	Failed  []BatchOutcome `json:"failed"`
	Skipped []BatchOutcome `json:"skipped"`
}

// NewBatchResult returns an empty result with all slices initialized.
func NewBatchResult() *BatchResult {
	return &BatchResult{
		Success: []BatchOutcome{},
		Failed:  []BatchOutcome{},
		Skipped: []BatchOutcome{},
	}
}

// ReportWriter persists a batch run report.
type ReportWriter interface {
	// WriteReport writes the result and returns the path of the report.
	WriteReport(result *BatchResult) (string, error)
}
