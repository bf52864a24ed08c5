package models

import "time"

// Mode selects how the access indicator is driven
type Mode string

const (
	// ModeChange lights the indicator when used bytes change between polls
	ModeChange Mode = "change"
	// ModeSimulated lights the indicator while a triggered simulated access runs
	ModeSimulated Mode = "simulated"
)

// AccessState is the state reported by the access indicator
type AccessState string

const (
	AccessIdle     AccessState = "idle"
	AccessAccessed AccessState = "accessed"
	AccessRunning  AccessState = "running"
)

// AccessIndicator is the state of the disk access indicator
type AccessIndicator struct {
	Timestamp time.Time   `json:"timestamp"`
	Mode      Mode        `json:"mode"`
	State     AccessState `json:"state"`
	Accessed  bool        `json:"accessed"`
	Devices   []string    `json:"devices,omitempty"`
}
