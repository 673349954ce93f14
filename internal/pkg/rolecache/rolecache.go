package rolecache

import (
	"fmt"
	"time"

	"github.com/rewardcircle/rewardcircle/internal/pkg/cache"
)

// Best-effort cache for resolved actor roles, keyed by user id. It only
// shaves a database lookup off hot requests: every entry may vanish at
// any time and correctness never depends on a hit. Role changes call
// Invalidate, but even a stale hit only lives until the TTL runs out.

const ttl = 5 * time.Minute

func key(userID uint) string {
	return fmt.Sprintf("role:%d", userID)
}

// Get returns the cached role for a user, or false on miss or any cache
// error (misses and errors are indistinguishable on purpose).
func Get(userID uint) (string, bool) {
	role, err := cache.Get(key(userID))
	if err != nil || role == "" {
		return "", false
	}
	return role, true
}

// Put stores a resolved role. Failures are ignored; the next request
// simply resolves against the database again.
func Put(userID uint, role string) {
	_ = cache.Set(key(userID), role, ttl)
}

// Invalidate drops a user's cached role, e.g. after a role change.
func Invalidate(userID uint) {
	_ = cache.Delete(key(userID))
}
