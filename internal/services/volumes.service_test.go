package services

import (
	"context"
	"errors"
	"fmt"

	"diskmanager/internal/models"

	"github.com/shirou/gopsutil/v3/disk"
	. "gopkg.in/check.v1"
)

type VolumesSuite struct {
	partitions []disk.PartitionStat
	usage      map[string]*disk.UsageStat
	volumes    *SystemVolumes
}

var _ = Suite(&VolumesSuite{})

func (s *VolumesSuite) SetUpTest(c *C) {
	s.partitions = []disk.PartitionStat{
		{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
		{Device: "/dev/sda2", Mountpoint: "/boot/efi", Fstype: "vfat"},
		{Device: "/dev/sdb1", Mountpoint: "/media/usb", Fstype: "exfat"},
	}
	s.usage = map[string]*disk.UsageStat{
		"/":          {Path: "/", Total: 100 * GiB, Used: 42 * GiB, UsedPercent: 42.0},
		"/boot/efi":  {Path: "/boot/efi", Total: GiB / 2, Used: GiB / 8, UsedPercent: 25.0},
		"/media/usb": {Path: "/media/usb", Total: 32 * GiB, Used: 0, UsedPercent: 0},
	}
	s.volumes = NewSystemVolumes(VolumeFilter{})
	s.volumes.partitions = func(ctx context.Context, all bool) ([]disk.PartitionStat, error) {
		if all {
			return nil, errors.New("pseudo filesystems requested")
		}
		return s.partitions, nil
	}
	s.volumes.usage = func(ctx context.Context, path string) (*disk.UsageStat, error) {
		u, ok := s.usage[path]
		if ok == false {
			return nil, fmt.Errorf("no such file or directory")
		}
		return u, nil
	}
}

func (s *VolumesSuite) TestListsEveryVolume(c *C) {
	volumes, err := s.volumes.ListVolumes(context.Background())
	c.Assert(err, IsNil)
	c.Assert(volumes, HasLen, 3)
	c.Check(volumes[0], DeepEquals, models.VolumeSnapshot{
		Device:       "/dev/sda1",
		Mountpoint:   "/",
		Filesystem:   "ext4",
		UsedBytes:    42 * GiB,
		TotalBytes:   100 * GiB,
		UsagePercent: 42.0,
	})
	c.Check(volumes[2].Device, Equals, "/dev/sdb1")
}

func (s *VolumesSuite) TestSkipsVolumeWhoseUsageFails(c *C) {
	delete(s.usage, "/boot/efi")
	volumes, err := s.volumes.ListVolumes(context.Background())
	c.Assert(err, IsNil)
	c.Assert(volumes, HasLen, 2)
	c.Check(volumes[0].Mountpoint, Equals, "/")
	c.Check(volumes[1].Mountpoint, Equals, "/media/usb")
}

func (s *VolumesSuite) TestEnumerationFailure(c *C) {
	s.volumes.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return nil, errors.New("permission denied")
	}
	volumes, err := s.volumes.ListVolumes(context.Background())
	c.Check(volumes, IsNil)
	c.Assert(err, ErrorMatches, "could not enumerate volumes: permission denied")

	var failure *IOFailure
	c.Assert(errors.As(err, &failure), Equals, true)
	c.Check(failure.Mountpoint, Equals, "")
}

func (s *VolumesSuite) TestEmptyEnumeration(c *C) {
	s.partitions = nil
	volumes, err := s.volumes.ListVolumes(context.Background())
	c.Assert(err, IsNil)
	c.Check(volumes, NotNil)
	c.Check(volumes, HasLen, 0)
}

func (s *VolumesSuite) TestFilter(c *C) {
	s.volumes.Filter = VolumeFilter{ExcludeMountpoints: []string{"/boot/efi"}}
	volumes, err := s.volumes.ListVolumes(context.Background())
	c.Assert(err, IsNil)
	c.Check(volumes, HasLen, 2)

	s.volumes.Filter = VolumeFilter{IncludeFstypes: []string{"ext4", "vfat"}, ExcludeMountpoints: []string{"/"}}
	volumes, err = s.volumes.ListVolumes(context.Background())
	c.Assert(err, IsNil)
	c.Assert(volumes, HasLen, 1)
	c.Check(volumes[0].Device, Equals, "/dev/sda2")
}

func (s *VolumesSuite) TestIOFailureMessage(c *C) {
	inner := errors.New("stale file handle")
	err := &IOFailure{Mountpoint: "/mnt/nfs", Err: inner}
	c.Check(err, ErrorMatches, "could not query usage of /mnt/nfs: stale file handle")
	c.Check(errors.Is(err, inner), Equals, true)
}
