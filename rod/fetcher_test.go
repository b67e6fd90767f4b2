package rod_test

import (
	"testing"

	"github.com/sensa-code/climb"
	"github.com/sensa-code/climb/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Launching Chrome is exercised in integration environments; these tests
// cover the parts that must work without a browser installed.

func TestBrowserFetcher_Name(t *testing.T) {
	t.Parallel()

	f := rod.NewBrowserFetcher(nil)
	defer f.Close()

	assert.Equal(t, climb.StrategyBrowser, f.Name())
}

func TestBrowserFetcher_CloseWithoutLaunch(t *testing.T) {
	t.Parallel()

	f := rod.NewBrowserFetcher(nil, rod.WithMaxPages(10))

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}
