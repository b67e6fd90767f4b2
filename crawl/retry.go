// Package crawl orchestrates the article fetch pipeline. It selects and
// falls back between extraction strategies, retries transient failures,
// and drives batch and board runs through dedup, storage, and reporting.
package crawl

import (
	"context"
	"time"

	"github.com/sensa-code/climb"
)

// FetchFunc fetches one article through the full strategy pipeline.
type FetchFunc func(ctx context.Context, url string) (*climb.Article, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// RetryDelays returns the exponential backoff delays for maxAttempts
// fetch calls: base, 2*base, 4*base, and so on, one delay between each
// consecutive pair of attempts.
func RetryDelays(maxAttempts int, base time.Duration) []time.Duration {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	delays := make([]time.Duration, 0, maxAttempts-1)
	delay := base
	for i := 0; i < maxAttempts-1; i++ {
		delays = append(delays, delay)
		delay *= 2
	}
	return delays
}

// FetchWithRetry attempts a fetch up to maxAttempts times with
// exponential backoff starting at base. No delay follows the final
// attempt. The logger function, if provided, is called before each retry.
func FetchWithRetry(ctx context.Context, f climb.ArticleFetcher, url string, maxAttempts int, base time.Duration, logger LogFunc) (*climb.Article, error) {
	return FetchWithRetryDelays(ctx, f, url, RetryDelays(maxAttempts, base), logger)
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable delays.
// This is useful for testing without waiting for real delays. An
// EUNAVAILABLE error aborts the retry loop immediately: the strategy's
// engine is missing and further attempts cannot succeed.
func FetchWithRetryDelays(ctx context.Context, f climb.ArticleFetcher, url string, delays []time.Duration, logger LogFunc) (*climb.Article, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		article, err := f.Fetch(ctx, url)
		if err == nil {
			return article, nil
		}
		lastErr = err

		if climb.ErrorCode(err) == climb.EUNAVAILABLE {
			break
		}
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("retry %s via %s (attempt %d): %v", url, f.Name(), attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
