package adapter

import "context"

// CacheInvalidator evicts every cache entry stored under a tag.
type CacheInvalidator interface {
	InvalidateTag(ctx context.Context, tag string) error
}
