package usecase

import (
	"golang.org/x/sync/singleflight"
)

// SingleflightCoordinator is the default RefreshCoordinator, backed by
// golang.org/x/sync/singleflight. Keys are the cache keys produced by
// domain.CacheKey, so collapsing happens per (category, tenant, user) and
// never across them.
type SingleflightCoordinator struct {
	group singleflight.Group
}

// NewSingleflightCoordinator creates a new SingleflightCoordinator
func NewSingleflightCoordinator() *SingleflightCoordinator {
	return &SingleflightCoordinator{}
}

// Do executes fn once per in-flight key and hands the result to every caller
// that joined the flight.
func (c *SingleflightCoordinator) Do(key string, fn func() (interface{}, error)) (interface{}, bool, error) {
	v, err, shared := c.group.Do(key, fn)
	return v, shared, err
}
