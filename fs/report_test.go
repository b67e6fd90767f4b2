package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sensa-code/climb"
	"github.com/sensa-code/climb/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriter_WriteReport(t *testing.T) {
	t.Parallel()

	t.Run("writes a timestamped report with all outcome arrays", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writer := fs.NewReportWriter(dir)
		result := climb.NewBatchResult()
		result.Success = append(result.Success, climb.BatchOutcome{URL: "https://example.com/a", Path: "/out/a"})
		result.Skipped = append(result.Skipped, climb.BatchOutcome{URL: "https://example.com/b", Reason: "already fetched"})

		path, err := writer.WriteReport(result)

		require.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(path))
		assert.Regexp(t, `^batch_report_\d{8}_\d{6}\.json$`, filepath.Base(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var report struct {
			RunID   string               `json:"run_id"`
			Success []climb.BatchOutcome `json:"success"`
			Failed  []climb.BatchOutcome `json:"failed"`
			Skipped []climb.BatchOutcome `json:"skipped"`
		}
		require.NoError(t, json.Unmarshal(data, &report))
		_, err = uuid.Parse(report.RunID)
		assert.NoError(t, err)
		assert.Len(t, report.Success, 1)
		assert.Len(t, report.Skipped, 1)
		assert.NotNil(t, report.Failed)
		assert.Empty(t, report.Failed)
	})

	t.Run("empty result still serializes arrays", func(t *testing.T) {
		t.Parallel()

		writer := fs.NewReportWriter(t.TempDir())

		path, err := writer.WriteReport(climb.NewBatchResult())

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"success": []`)
		assert.Contains(t, string(data), `"failed": []`)
		assert.Contains(t, string(data), `"skipped": []`)
	})
}
