package shared

import (
	"context"
	"strings"

	"github.com/Valex-Destigos/TooDoo/shared/cache"
	"github.com/Valex-Destigos/TooDoo/shared/constant"
	"github.com/rs/zerolog/log"
)

// BuildCacheKey joins key segments with ":".
func BuildCacheKey(segments ...string) string {
	return strings.Join(segments, ":")
}

// InvalidateCaches removes the given cache entries. Keys are exact; a
// pattern clear on a bare prefix would also sweep keys of other owners
// sharing that prefix (invalidating "todo:list:12*" drops "todo:list:120").
func InvalidateCaches(ctx context.Context, c cache.RedisCache, keys ...string) {
	for _, key := range keys {
		if err := c.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to invalidate cache")
		}
	}
}

// UserIDFromContext returns the authenticated user id placed in the context
// by the auth middleware. The boolean reports whether one was present.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(constant.ContextKeyUserID).(int64)

	return id, ok
}
