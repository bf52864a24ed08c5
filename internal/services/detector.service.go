package services

import (
	"sort"

	"diskmanager/internal/models"
)

// DeviceSet is a set of device identifiers
type DeviceSet map[string]struct{}

func (s DeviceSet) Has(device string) bool {
	_, ok := s[device]
	return ok
}

// Sorted returns the devices in lexical order
func (s DeviceSet) Sorted() []string {
	res := make([]string, 0, len(s))
	for d := range s {
		res = append(res, d)
	}
	sort.Strings(res)
	return res
}

// AccessDetector flags devices whose used bytes changed since the previous
// Note call. It is not safe for concurrent use.
type AccessDetector struct {
	lastUsed    map[string]uint64
	evictAbsent bool
}

// NewAccessDetector creates a detector. When evictAbsent is set, devices
// missing from a snapshot are forgotten and their next sighting is a first
// sighting.
func NewAccessDetector(evictAbsent bool) *AccessDetector {
	return &AccessDetector{
		lastUsed:    make(map[string]uint64),
		evictAbsent: evictAbsent,
	}
}

// Note records snapshots and returns the devices whose used bytes differ
// from their stored value. First sightings are never flagged.
func (d *AccessDetector) Note(snapshots []models.VolumeSnapshot) DeviceSet {
	flagged := DeviceSet{}
	seen := make(map[string]struct{}, len(snapshots))

	for _, s := range snapshots {
		seen[s.Device] = struct{}{}
		last, ok := d.lastUsed[s.Device]
		if ok == false {
			d.lastUsed[s.Device] = s.UsedBytes
			continue
		}
		if last != s.UsedBytes {
			flagged[s.Device] = struct{}{}
			d.lastUsed[s.Device] = s.UsedBytes
		}
	}

	if d.evictAbsent {
		for device := range d.lastUsed {
			if _, ok := seen[device]; ok == false {
				delete(d.lastUsed, device)
			}
		}
	}

	return flagged
}

// Last returns the stored used bytes of a device
func (d *AccessDetector) Last(device string) (uint64, bool) {
	v, ok := d.lastUsed[device]
	return v, ok
}

// Tracked returns the number of devices with a stored baseline
func (d *AccessDetector) Tracked() int {
	return len(d.lastUsed)
}

// Reset forgets every baseline
func (d *AccessDetector) Reset() {
	d.lastUsed = make(map[string]uint64)
}
