package climb_test

import (
	"sync"
	"testing"
	"time"

	"github.com/sensa-code/climb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, climb.DefaultConfig().Validate())
	})

	t.Run("missing output dir", func(t *testing.T) {
		t.Parallel()

		cfg := climb.DefaultConfig()
		cfg.OutputDir = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, climb.EINVALID, climb.ErrorCode(err))
	})

	t.Run("zero retries", func(t *testing.T) {
		t.Parallel()

		cfg := climb.DefaultConfig()
		cfg.MaxRetries = 0

		assert.Error(t, cfg.Validate())
	})
}

func TestConfigStore_Swap(t *testing.T) {
	t.Parallel()

	store := climb.NewConfigStore(climb.DefaultConfig())

	next := climb.DefaultConfig()
	next.PolitenessDelay = 5 * time.Second
	store.Swap(next)

	assert.Equal(t, 5*time.Second, store.Load().PolitenessDelay)
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := climb.NewConfigStore(climb.DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Swap(climb.DefaultConfig())
		}()
		go func() {
			defer wg.Done()
			cfg := store.Load()
			assert.NotNil(t, cfg)
		}()
	}
	wg.Wait()
}
