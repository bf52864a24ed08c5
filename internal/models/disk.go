package models

import "time"

// VolumeSnapshot is the usage of one mounted volume at a polling instant
type VolumeSnapshot struct {
	Device       string  `json:"device"`
	Mountpoint   string  `json:"mountpoint"`
	Filesystem   string  `json:"filesystem"`
	UsedBytes    uint64  `json:"used_bytes"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

// DisplayRow is the formatted projection of a VolumeSnapshot
type DisplayRow struct {
	Device     string `json:"device"`
	Mountpoint string `json:"mountpoint"`
	Filesystem string `json:"filesystem"`
	Used       string `json:"used_gb"`
	Total      string `json:"total_gb"`
	Percent    string `json:"used_percent"`
	Fill       int    `json:"fill"` // 0-100, drives the space bar
}

// VolumeUpdate is one successful table refresh
type VolumeUpdate struct {
	Timestamp time.Time        `json:"timestamp"`
	Volumes   []VolumeSnapshot `json:"volumes"`
	Rows      []DisplayRow     `json:"rows"`
}
