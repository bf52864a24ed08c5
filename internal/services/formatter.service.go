package services

import (
	"fmt"

	"diskmanager/internal/models"
)

// FormatRow converts a snapshot into its display strings: GiB with two
// decimals and percent with one decimal.
func FormatRow(s models.VolumeSnapshot) models.DisplayRow {
	fill := int(s.UsagePercent)
	if fill < 0 {
		fill = 0
	} else if fill > 100 {
		fill = 100
	}

	return models.DisplayRow{
		Device:     s.Device,
		Mountpoint: s.Mountpoint,
		Filesystem: s.Filesystem,
		Used:       fmt.Sprintf("%.2f", float64(s.UsedBytes)/GiB),
		Total:      fmt.Sprintf("%.2f", float64(s.TotalBytes)/GiB),
		Percent:    fmt.Sprintf("%.1f%%", s.UsagePercent),
		Fill:       fill,
	}
}

// FormatRows formats every snapshot, preserving order
func FormatRows(snapshots []models.VolumeSnapshot) []models.DisplayRow {
	rows := make([]models.DisplayRow, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, FormatRow(s))
	}
	return rows
}
