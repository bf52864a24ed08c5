package services

import (
	"sync"
	"time"

	"diskmanager/internal/models"
)

// StateCache holds the last poller output for readers outside the poller
// goroutine
type StateCache struct {
	mu          sync.RWMutex
	update      models.VolumeUpdate
	hasUpdate   bool
	indicator   models.AccessIndicator
	accessCount uint64
}

func NewStateCache() *StateCache {
	return &StateCache{
		indicator: models.AccessIndicator{State: models.AccessIdle},
	}
}

func (c *StateCache) ShowVolumes(update models.VolumeUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.update = update
	c.hasUpdate = true
}

func (c *StateCache) ShowAccess(indicator models.AccessIndicator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if indicator.Accessed && c.indicator.Accessed == false {
		c.accessCount++
	}
	c.indicator = indicator
}

// Volumes returns the last update, false before the first refresh
func (c *StateCache) Volumes() (models.VolumeUpdate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.update, c.hasUpdate
}

// Access returns the current indicator and how many times it lit up
func (c *StateCache) Access() (models.AccessIndicator, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indicator, c.accessCount
}

// Age returns the time elapsed since the last refresh
func (c *StateCache) Age(now time.Time) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.hasUpdate == false {
		return 0
	}
	return now.Sub(c.update.Timestamp)
}
