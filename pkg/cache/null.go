package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get misses. It backs --no-cache and the
// "none" backend, and replaces a backend that failed to open.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
