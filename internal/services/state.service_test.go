package services

import (
	"time"

	"diskmanager/internal/models"

	. "gopkg.in/check.v1"
)

type StateCacheSuite struct{}

var _ = Suite(&StateCacheSuite{})

func (s *StateCacheSuite) TestVolumes(c *C) {
	cache := NewStateCache()
	_, ok := cache.Volumes()
	c.Check(ok, Equals, false)
	c.Check(cache.Age(time.Now()), Equals, time.Duration(0))

	now := time.Unix(100, 0)
	update := models.VolumeUpdate{Timestamp: now, Rows: []models.DisplayRow{{Device: "/dev/sda1"}}}
	cache.ShowVolumes(update)

	got, ok := cache.Volumes()
	c.Check(ok, Equals, true)
	c.Check(got, DeepEquals, update)
	c.Check(cache.Age(now.Add(3*time.Second)), Equals, 3*time.Second)
}

func (s *StateCacheSuite) TestAccessCountsRisingEdges(c *C) {
	cache := NewStateCache()
	indicator, count := cache.Access()
	c.Check(indicator.State, Equals, models.AccessIdle)
	c.Check(count, Equals, uint64(0))

	on := models.AccessIndicator{State: models.AccessAccessed, Accessed: true}
	off := models.AccessIndicator{State: models.AccessIdle}
	for _, i := range []models.AccessIndicator{on, on, off, on, off, off} {
		cache.ShowAccess(i)
	}
	indicator, count = cache.Access()
	c.Check(indicator.State, Equals, models.AccessIdle)
	c.Check(count, Equals, uint64(2))
}
