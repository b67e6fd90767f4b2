package mock

import (
	"context"

	"github.com/sensa-code/climb"
)

var _ climb.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of climb.RobotsPolicy.
type RobotsPolicy struct {
	IsAllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) IsAllowed(ctx context.Context, url string) bool {
	return p.IsAllowedFn(ctx, url)
}
