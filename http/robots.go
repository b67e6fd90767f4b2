package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sensa-code/climb"
	"github.com/temoto/robotstxt"
)

// robotsTimeout bounds the robots.txt fetch. A slow or dead origin must
// not stall article fetching, which fails open anyway.
const robotsTimeout = 5 * time.Second

// Ensure RobotsChecker implements climb.RobotsPolicy at compile time.
var _ climb.RobotsPolicy = (*RobotsChecker)(nil)

// RobotsChecker fetches and caches robots.txt policies per origin for the
// process lifetime. Any retrieval or parse failure is cached as a nil
// policy, which reads as "allow all": this is a personal-use tool where
// forward progress wins over strict compliance.
//
// RobotsChecker is safe for concurrent use.
type RobotsChecker struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData // nil entry = fetch failed, allow
}

// NewRobotsChecker creates a new RobotsChecker. If client is nil,
// http.DefaultClient is used.
func NewRobotsChecker(client *http.Client) *RobotsChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsChecker{
		client: client,
		cache:  make(map[string]*robotstxt.RobotsData),
	}
}

// IsAllowed reports whether the wildcard agent may fetch rawURL under the
// origin's robots.txt.
func (c *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}
	origin := u.Scheme + "://" + u.Host

	policy := c.policy(ctx, origin)
	if policy == nil {
		return true
	}
	return policy.TestAgent(u.Path, "*")
}

// policy returns the cached robots policy for origin, fetching it on the
// first request. Failed fetches are cached too so a dead origin is only
// probed once per process.
func (c *RobotsChecker) policy(ctx context.Context, origin string) *robotstxt.RobotsData {
	c.mu.Lock()
	policy, ok := c.cache[origin]
	c.mu.Unlock()
	if ok {
		return policy
	}

	policy = c.fetch(ctx, origin)

	c.mu.Lock()
	c.cache[origin] = policy
	c.mu.Unlock()
	return policy
}

func (c *RobotsChecker) fetch(ctx context.Context, origin string) *robotstxt.RobotsData {
	ctx, cancel := context.WithTimeout(ctx, robotsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	policy, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return policy
}
