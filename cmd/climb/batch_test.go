package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadURLFile(t *testing.T) {
	t.Parallel()

	t.Run("skips comments and blank lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "urls.txt")
		require.NoError(t, os.WriteFile(path, []byte(`# cat articles
https://example.com/a

  https://example.com/b
# done
`), 0644))

		urls, err := readURLFile(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, urls)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := readURLFile(filepath.Join(t.TempDir(), "nope.txt"))

		require.Error(t, err)
	})
}
