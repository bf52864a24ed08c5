package services

import (
	"context"
	"time"

	. "gopkg.in/check.v1"
)

type AccessTaskSuite struct{}

var _ = Suite(&AccessTaskSuite{})

func (s *AccessTaskSuite) TestTransitions(c *C) {
	task := AccessTask{}
	c.Check(task.State(), Equals, TaskIdle)
	c.Check(task.Finish(), ErrorMatches, "cannot finish access: task is idle")

	now := time.Unix(1000, 0)
	c.Assert(task.Start(now), IsNil)
	c.Check(task.State(), Equals, TaskRunning)
	c.Check(task.Since(), Equals, now)
	c.Check(task.Start(now), ErrorMatches, "cannot start access: task is running")

	c.Assert(task.Finish(), IsNil)
	c.Check(task.State(), Equals, TaskIdle)
	c.Check(task.Since().IsZero(), Equals, true)
}

func (s *AccessTaskSuite) TestStateString(c *C) {
	c.Check(TaskIdle.String(), Equals, "idle")
	c.Check(TaskRunning.String(), Equals, "running")
	c.Check(TaskState(42).String(), Equals, "<unknown TaskState 42>")
}

func (s *AccessTaskSuite) TestSimulateAccessWaitsForDuration(c *C) {
	duration := 30 * time.Millisecond
	done := make(chan struct{}, 1)
	start := time.Now()
	go simulateAccess(context.Background(), duration, done)

	select {
	case <-done:
		c.Check(time.Since(start) >= duration, Equals, true)
	case <-time.After(time.Second):
		c.Fatalf("simulated access did not finish after 1s")
	}
}

func (s *AccessTaskSuite) TestSimulateAccessGivesUpOnCancel(c *C) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	returned := make(chan struct{})
	go func() {
		simulateAccess(ctx, time.Hour, done)
		close(returned)
	}()
	cancel()

	select {
	case <-returned:
	case <-time.After(time.Second):
		c.Fatalf("simulated access did not return on cancel")
	}
	select {
	case <-done:
		c.Errorf("completion signaled after cancel")
	default:
	}
}
