package models

import "time"

// UsageSample stores the usage of a device at one refresh
type UsageSample struct {
	Timestamp    time.Time `json:"timestamp"`
	UsedBytes    uint64    `json:"used_bytes"`
	UsagePercent float64   `json:"usage_percent"`
}

// DeviceHistory holds the samples of a single device, oldest first
type DeviceHistory struct {
	Device     string        `json:"device"`
	Mountpoint string        `json:"mountpoint"`
	Samples    []UsageSample `json:"samples"`
}
