package routine

import (
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const activeRoutineCacheExpire = 5 * 60 // seconds

// ActiveRoutineCache keeps the per-user active routine for a few
// minutes, so the schedule and toggle paths do not hit the DB on every
// request. Every mutating routine operation must call Invalidate for
// the affected user; the cache never serves stale data past the TTL.
type ActiveRoutineCache struct {
	cache *freecache.Cache
}

func NewActiveRoutineCache() *ActiveRoutineCache {
	megabyte := 1024 * 1024
	return &ActiveRoutineCache{
		cache: freecache.NewCache(10 * megabyte),
	}
}

func (c *ActiveRoutineCache) Get(userID uuid.UUID) (*Routine, bool) {
	routineBytes, err := c.cache.Get(c.key(userID))
	if err != nil {
		// freecache returns ErrNotFound for a plain miss
		return nil, false
	}

	var routine Routine
	if err := json.Unmarshal(routineBytes, &routine); err != nil {
		log.Errorf("failed to unmarshal cached active routine for user %s: %s", userID, err)
		return nil, false
	}

	return &routine, true
}

func (c *ActiveRoutineCache) Set(userID uuid.UUID, routine *Routine) {
	routineBytes, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("failed to marshal active routine for cache, user %s: %s", userID, err)
		return
	}

	if err := c.cache.Set(c.key(userID), routineBytes, activeRoutineCacheExpire); err != nil {
		log.Errorf("failed to set active routine cache for user %s: %s", userID, err)
	}
}

func (c *ActiveRoutineCache) Invalidate(userID uuid.UUID) {
	c.cache.Del(c.key(userID))
}

func (c *ActiveRoutineCache) key(userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("active-routine::%s", userID))
}
