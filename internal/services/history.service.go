package services

import (
	"sort"
	"sync"
	"time"

	"diskmanager/internal/models"
)

// HistoryCollector keeps a bounded time series of usage per device
type HistoryCollector struct {
	mu            sync.RWMutex
	devices       map[string]*models.DeviceHistory
	maxDataPoints int
}

func NewHistoryCollector(maxDataPoints int) *HistoryCollector {
	if maxDataPoints <= 0 {
		maxDataPoints = 60
	}
	return &HistoryCollector{
		devices:       make(map[string]*models.DeviceHistory),
		maxDataPoints: maxDataPoints,
	}
}

// ShowVolumes appends one sample per volume. Devices missing from the
// update are dropped.
func (hc *HistoryCollector) ShowVolumes(update models.VolumeUpdate) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	seen := make(map[string]bool, len(update.Volumes))
	for _, v := range update.Volumes {
		seen[v.Device] = true
		h, ok := hc.devices[v.Device]
		if ok == false {
			h = &models.DeviceHistory{Device: v.Device}
			hc.devices[v.Device] = h
		}
		h.Mountpoint = v.Mountpoint
		h.Samples = append(h.Samples, models.UsageSample{
			Timestamp:    update.Timestamp,
			UsedBytes:    v.UsedBytes,
			UsagePercent: v.UsagePercent,
		})
		if len(h.Samples) > hc.maxDataPoints {
			h.Samples = h.Samples[len(h.Samples)-hc.maxDataPoints:]
		}
	}

	for device := range hc.devices {
		if seen[device] == false {
			delete(hc.devices, device)
		}
	}
}

func (hc *HistoryCollector) ShowAccess(models.AccessIndicator) {}

// GetHistoricalData returns the samples newer than now-duration. An empty
// device selects every device. A zero duration keeps every sample.
func (hc *HistoryCollector) GetHistoricalData(device string, duration time.Duration, now time.Time) []models.DeviceHistory {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	cutoffTime := now.Add(-duration)
	res := []models.DeviceHistory{}

	for name, h := range hc.devices {
		if len(device) > 0 && name != device {
			continue
		}
		filtered := models.DeviceHistory{
			Device:     h.Device,
			Mountpoint: h.Mountpoint,
			Samples:    []models.UsageSample{},
		}
		for _, s := range h.Samples {
			if duration == 0 || s.Timestamp.After(cutoffTime) {
				filtered.Samples = append(filtered.Samples, s)
			}
		}
		res = append(res, filtered)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Device < res[j].Device
	})
	return res
}
