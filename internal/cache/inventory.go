package cache

import (
	"context"
	"fmt"
	"time"
)

// Only viewer-independent lookups are cached. Post visibility depends on the
// viewer and the clock, so posts are never cached.
const (
	UserKeyPrefix     = "user:%d"
	CategoryKeyPrefix = "category:%s"
)

const (
	UserTTL     = 5 * time.Minute
	CategoryTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CategoryKey(slug string) string {
	return fmt.Sprintf(CategoryKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateCategory(ctx context.Context, slug string) {
	Invalidate(ctx, CategoryKey(slug))
}
