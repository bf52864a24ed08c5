package services

import (
	"context"
	"fmt"

	"diskmanager/internal/logging"
	"diskmanager/internal/models"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/sirupsen/logrus"
)

const GiB = 1024 * 1024 * 1024

// IOFailure reports an OS volume query that could not complete. Mountpoint
// is empty when the enumeration itself failed.
type IOFailure struct {
	Mountpoint string
	Err        error
}

func (e *IOFailure) Error() string {
	if len(e.Mountpoint) == 0 {
		return fmt.Sprintf("could not enumerate volumes: %s", e.Err)
	}
	return fmt.Sprintf("could not query usage of %s: %s", e.Mountpoint, e.Err)
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}

// VolumeLister lists the currently mounted volumes
type VolumeLister interface {
	ListVolumes(ctx context.Context) ([]models.VolumeSnapshot, error)
}

// VolumeFilter narrows the enumerated volumes. Empty lists accept everything.
type VolumeFilter struct {
	IncludeFstypes     []string
	ExcludeMountpoints []string
}

func (f VolumeFilter) accept(p disk.PartitionStat) bool {
	for _, m := range f.ExcludeMountpoints {
		if m == p.Mountpoint {
			return false
		}
	}
	if len(f.IncludeFstypes) == 0 {
		return true
	}
	for _, t := range f.IncludeFstypes {
		if t == p.Fstype {
			return true
		}
	}
	return false
}

// SystemVolumes queries the OS through gopsutil
type SystemVolumes struct {
	Filter VolumeFilter

	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	logger     *logrus.Entry
}

func NewSystemVolumes(filter VolumeFilter) *SystemVolumes {
	return &SystemVolumes{
		Filter:     filter,
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
		logger:     logging.NewLogger("volumes"),
	}
}

// ListVolumes returns the usage of every mounted real filesystem. A volume
// whose usage cannot be queried is skipped.
func (v *SystemVolumes) ListVolumes(ctx context.Context) ([]models.VolumeSnapshot, error) {
	partitions, err := v.partitions(ctx, false)
	if err != nil {
		return nil, &IOFailure{Err: err}
	}

	volumes := make([]models.VolumeSnapshot, 0, len(partitions))
	for _, partition := range partitions {
		if v.Filter.accept(partition) == false {
			continue
		}

		usage, err := v.usage(ctx, partition.Mountpoint)
		if err != nil {
			v.logger.WithError(&IOFailure{Mountpoint: partition.Mountpoint, Err: err}).
				WithField("device", partition.Device).
				Warn("skipping volume")
			continue
		}

		volumes = append(volumes, models.VolumeSnapshot{
			Device:       partition.Device,
			Mountpoint:   partition.Mountpoint,
			Filesystem:   partition.Fstype,
			UsedBytes:    usage.Used,
			TotalBytes:   usage.Total,
			UsagePercent: usage.UsedPercent,
		})
	}

	return volumes, nil
}
