package services

import (
	"context"
	"fmt"
	"time"
)

// TaskState is the state of the simulated access task
type TaskState int

const (
	TaskIdle TaskState = iota
	TaskRunning
)

func (s TaskState) String() string {
	switch s {
	case TaskIdle:
		return "idle"
	case TaskRunning:
		return "running"
	default:
		return fmt.Sprintf("<unknown TaskState %d>", int(s))
	}
}

// AccessTask is the Idle/Running state machine of a simulated disk access.
// Its zero value is Idle.
type AccessTask struct {
	state   TaskState
	started time.Time
}

func (t *AccessTask) State() TaskState {
	return t.state
}

// Since returns when the running access started
func (t *AccessTask) Since() time.Time {
	return t.started
}

// Start moves the task from Idle to Running
func (t *AccessTask) Start(now time.Time) error {
	if t.state != TaskIdle {
		return fmt.Errorf("cannot start access: task is %s", t.state)
	}
	t.state = TaskRunning
	t.started = now
	return nil
}

// Finish moves the task from Running back to Idle
func (t *AccessTask) Finish() error {
	if t.state != TaskRunning {
		return fmt.Errorf("cannot finish access: task is %s", t.state)
	}
	t.state = TaskIdle
	t.started = time.Time{}
	return nil
}

// simulateAccess blocks for d, then signals done. It gives up silently when
// ctx ends first.
func simulateAccess(ctx context.Context, d time.Duration, done chan<- struct{}) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	select {
	case done <- struct{}{}:
	case <-ctx.Done():
	}
}
