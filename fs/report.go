package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sensa-code/climb"
)

// Ensure ReportWriter implements climb.ReportWriter at compile time.
var _ climb.ReportWriter = (*ReportWriter)(nil)

// ReportWriter persists batch run reports as timestamped JSON files in
// the output directory.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates a report writer for the given output directory.
func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

// WriteReport writes the result under a timestamped filename and returns
// the report path.
func (w *ReportWriter) WriteReport(result *climb.BatchResult) (string, error) {
	report := struct {
		RunID       string               `json:"run_id"`
		GeneratedAt string               `json:"generated_at"`
		Success     []climb.BatchOutcome `json:"success"`
		Failed      []climb.BatchOutcome `json:"failed"`
		Skipped     []climb.BatchOutcome `json:"skipped"`
	}{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Success:     result.Success,
		Failed:      result.Failed,
		Skipped:     result.Skipped,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("batch_report_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
