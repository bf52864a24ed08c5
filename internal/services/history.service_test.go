package services

import (
	"time"

	"diskmanager/internal/models"

	. "gopkg.in/check.v1"
)

type HistorySuite struct {
	start time.Time
}

var _ = Suite(&HistorySuite{})

func (s *HistorySuite) SetUpSuite(c *C) {
	s.start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *HistorySuite) update(i int, devices ...string) models.VolumeUpdate {
	res := models.VolumeUpdate{Timestamp: s.start.Add(time.Duration(i) * time.Second)}
	for _, d := range devices {
		res.Volumes = append(res.Volumes, models.VolumeSnapshot{
			Device:       d,
			Mountpoint:   "/mnt/" + d,
			UsedBytes:    uint64(i),
			UsagePercent: float64(i),
		})
	}
	return res
}

func (s *HistorySuite) TestBoundsSamples(c *C) {
	h := NewHistoryCollector(3)
	for i := 0; i < 5; i++ {
		h.ShowVolumes(s.update(i, "sda", "sdb"))
	}

	all := h.GetHistoricalData("", 0, s.start.Add(time.Hour))
	c.Assert(all, HasLen, 2)
	c.Check(all[0].Device, Equals, "sda")
	c.Check(all[1].Device, Equals, "sdb")
	c.Assert(all[0].Samples, HasLen, 3)
	c.Check(all[0].Samples[0].UsedBytes, Equals, uint64(2))
	c.Check(all[0].Samples[2].UsedBytes, Equals, uint64(4))
	c.Check(all[0].Mountpoint, Equals, "/mnt/sda")
}

func (s *HistorySuite) TestDropsAbsentDevices(c *C) {
	h := NewHistoryCollector(10)
	h.ShowVolumes(s.update(0, "sda", "sdb"))
	h.ShowVolumes(s.update(1, "sda"))

	all := h.GetHistoricalData("", 0, s.start)
	c.Assert(all, HasLen, 1)
	c.Check(all[0].Device, Equals, "sda")
	c.Check(h.GetHistoricalData("sdb", 0, s.start), HasLen, 0)
}

func (s *HistorySuite) TestFilters(c *C) {
	h := NewHistoryCollector(100)
	for i := 0; i < 10; i++ {
		h.ShowVolumes(s.update(i, "sda", "sdb"))
	}

	now := s.start.Add(9 * time.Second)
	recent := h.GetHistoricalData("sdb", 3*time.Second, now)
	c.Assert(recent, HasLen, 1)
	c.Check(recent[0].Device, Equals, "sdb")
	c.Assert(recent[0].Samples, HasLen, 3)
	c.Check(recent[0].Samples[0].UsedBytes, Equals, uint64(7))

	none := h.GetHistoricalData("sda", time.Second, now.Add(time.Minute))
	c.Assert(none, HasLen, 1)
	c.Check(none[0].Samples, HasLen, 0)
}

func (s *HistorySuite) TestDefaultBound(c *C) {
	h := NewHistoryCollector(0)
	c.Check(h.maxDataPoints, Equals, 60)
	h.ShowAccess(models.AccessIndicator{})
}
