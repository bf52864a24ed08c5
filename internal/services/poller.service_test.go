package services

import (
	"context"
	"errors"
	"time"

	"diskmanager/internal/models"
	"diskmanager/internal/services/mock_services"

	"github.com/golang/mock/gomock"
	. "gopkg.in/check.v1"
)

type recordingView struct {
	volumes chan models.VolumeUpdate
	access  chan models.AccessIndicator
}

func newRecordingView() *recordingView {
	return &recordingView{
		volumes: make(chan models.VolumeUpdate, 64),
		access:  make(chan models.AccessIndicator, 64),
	}
}

func (v *recordingView) ShowVolumes(update models.VolumeUpdate) {
	select {
	case v.volumes <- update:
	default:
	}
}

func (v *recordingView) ShowAccess(indicator models.AccessIndicator) {
	select {
	case v.access <- indicator:
	default:
	}
}

const viewTimeout = 2 * time.Second

func (v *recordingView) nextVolumes(c *C) models.VolumeUpdate {
	select {
	case u := <-v.volumes:
		return u
	case <-time.After(viewTimeout):
		c.Fatalf("no volume update after %s", viewTimeout)
	}
	return models.VolumeUpdate{}
}

func (v *recordingView) nextAccess(c *C) models.AccessIndicator {
	select {
	case a := <-v.access:
		return a
	case <-time.After(viewTimeout):
		c.Fatalf("no access indicator after %s", viewTimeout)
	}
	return models.AccessIndicator{}
}

type PollerSuite struct {
	ctrl    *gomock.Controller
	volumes *mock_services.MockVolumeLister
	view    *recordingView
	cfg     PollerConfig
	cancel  context.CancelFunc
	errs    chan error
}

var _ = Suite(&PollerSuite{})

func (s *PollerSuite) SetUpTest(c *C) {
	s.ctrl = gomock.NewController(c)
	s.volumes = mock_services.NewMockVolumeLister(s.ctrl)
	s.view = newRecordingView()
	s.cfg = PollerConfig{
		Mode:            models.ModeSimulated,
		RefreshInterval: time.Hour,
		AccessInterval:  time.Hour,
		AccessDuration:  50 * time.Millisecond,
		EvictAbsent:     true,
	}
	s.cancel = nil
}

func (s *PollerSuite) TearDownTest(c *C) {
	s.stop(c)
	s.ctrl.Finish()
}

func (s *PollerSuite) start(c *C) *Poller {
	p := NewPoller(s.cfg, s.volumes, s.view)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.errs = make(chan error, 1)
	go func() {
		s.errs <- p.Run(ctx)
	}()
	return p
}

func (s *PollerSuite) stop(c *C) {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	select {
	case err := <-s.errs:
		c.Check(err, IsNil)
	case <-time.After(viewTimeout):
		c.Errorf("poller did not stop")
	}
}

var someVolumes = []models.VolumeSnapshot{
	{Device: "/dev/sda1", Mountpoint: "/", Filesystem: "ext4", UsedBytes: GiB, TotalBytes: 4 * GiB, UsagePercent: 25.0},
}

func (s *PollerSuite) TestInitialRefresh(c *C) {
	s.volumes.EXPECT().ListVolumes(gomock.Any()).Return(someVolumes, nil)
	s.start(c)

	access := s.view.nextAccess(c)
	c.Check(access.State, Equals, models.AccessIdle)
	c.Check(access.Accessed, Equals, false)
	c.Check(access.Mode, Equals, models.ModeSimulated)

	update := s.view.nextVolumes(c)
	c.Check(update.Volumes, DeepEquals, someVolumes)
	c.Assert(update.Rows, HasLen, 1)
	c.Check(update.Rows[0].Used, Equals, "1.00")
	c.Check(update.Rows[0].Total, Equals, "4.00")
	c.Check(update.Rows[0].Percent, Equals, "25.0%")
	c.Check(update.Timestamp.IsZero(), Equals, false)
}

func (s *PollerSuite) TestEmptyVolumeList(c *C) {
	s.volumes.EXPECT().ListVolumes(gomock.Any()).Return([]models.VolumeSnapshot{}, nil)
	s.start(c)
	update := s.view.nextVolumes(c)
	c.Check(update.Rows, HasLen, 0)
	c.Check(update.Volumes, HasLen, 0)
}

func (s *PollerSuite) TestRefreshFailureKeepsLastRows(c *C) {
	failure := &IOFailure{Err: errors.New("permission denied")}
	gomock.InOrder(
		s.volumes.EXPECT().ListVolumes(gomock.Any()).Return(someVolumes, nil),
		s.volumes.EXPECT().ListVolumes(gomock.Any()).Return(nil, failure),
	)
	p := s.start(c)
	s.view.nextVolumes(c)

	_, err := p.Refresh(context.Background())
	c.Check(errors.Is(err, failure), Equals, true)

	select {
	case u := <-s.view.volumes:
		c.Errorf("unexpected update after failure: %+v", u)
	case <-time.After(20 * time.Millisecond):
	}
}

func (s *PollerSuite) TestManualRefresh(c *C) {
	changed := []models.VolumeSnapshot{someVolumes[0]}
	changed[0].UsedBytes = 2 * GiB
	changed[0].UsagePercent = 50.0
	gomock.InOrder(
		s.volumes.EXPECT().ListVolumes(gomock.Any()).Return(someVolumes, nil),
		s.volumes.EXPECT().ListVolumes(gomock.Any()).Return(changed, nil),
	)
	p := s.start(c)
	s.view.nextVolumes(c)

	update, err := p.Refresh(context.Background())
	c.Assert(err, IsNil)
	c.Check(update.Rows[0].Percent, Equals, "50.0%")
	c.Check(s.view.nextVolumes(c).Rows[0].Used, Equals, "2.00")
}

func (s *PollerSuite) TestChangeModeFlagsUsedBytesChanges(c *C) {
	s.cfg.Mode = models.ModeChange
	s.cfg.AccessInterval = 10 * time.Millisecond

	used := []uint64{100, 100, 150}
	calls := 0
	s.volumes.EXPECT().ListVolumes(gomock.Any()).DoAndReturn(func(context.Context) ([]models.VolumeSnapshot, error) {
		u := uint64(150)
		if calls < len(used) {
			u = used[calls]
		}
		calls++
		return []models.VolumeSnapshot{{Device: "/dev/sda1", UsedBytes: u, TotalBytes: 1000}}, nil
	}).AnyTimes()

	s.start(c)

	c.Check(s.view.nextAccess(c).State, Equals, models.AccessIdle) // start
	c.Check(s.view.nextAccess(c).State, Equals, models.AccessIdle) // baseline

	accessed := s.view.nextAccess(c)
	c.Check(accessed.State, Equals, models.AccessAccessed)
	c.Check(accessed.Accessed, Equals, true)
	c.Check(accessed.Devices, DeepEquals, []string{"/dev/sda1"})

	c.Check(s.view.nextAccess(c).State, Equals, models.AccessIdle)
}

func (s *PollerSuite) TestChangeModeRejectsTrigger(c *C) {
	s.cfg.Mode = models.ModeChange
	p := NewPoller(s.cfg, s.volumes, s.view)
	started, err := p.TriggerAccess(context.Background())
	c.Check(started, Equals, false)
	c.Check(err, Equals, ErrSimulationDisabled)
}

func (s *PollerSuite) TestSimulatedAccess(c *C) {
	s.volumes.EXPECT().ListVolumes(gomock.Any()).Return(someVolumes, nil).AnyTimes()
	p := s.start(c)
	c.Check(s.view.nextAccess(c).State, Equals, models.AccessIdle)
	s.view.nextVolumes(c)

	start := time.Now()
	started, err := p.TriggerAccess(context.Background())
	c.Assert(err, IsNil)
	c.Check(started, Equals, true)

	running := s.view.nextAccess(c)
	c.Check(running.State, Equals, models.AccessRunning)
	c.Check(running.Accessed, Equals, true)

	// second trigger while running is ignored
	started, err = p.TriggerAccess(context.Background())
	c.Check(err, IsNil)
	c.Check(started, Equals, false)

	finished := s.view.nextAccess(c)
	c.Check(finished.State, Equals, models.AccessIdle)
	c.Check(time.Since(start) >= s.cfg.AccessDuration, Equals, true)

	// back to idle, trigger works again
	started, err = p.TriggerAccess(context.Background())
	c.Check(err, IsNil)
	c.Check(started, Equals, true)
	c.Check(s.view.nextAccess(c).State, Equals, models.AccessRunning)
}

func (s *PollerSuite) TestStoppedPoller(c *C) {
	s.volumes.EXPECT().ListVolumes(gomock.Any()).Return(someVolumes, nil)
	p := s.start(c)
	s.view.nextVolumes(c)
	s.stop(c)

	_, err := p.Refresh(context.Background())
	c.Check(err, Equals, ErrStopped)
	_, err = p.TriggerAccess(context.Background())
	c.Check(err, Equals, ErrStopped)
	c.Check(p.Run(context.Background()), Equals, ErrAlreadyRunning)
}

func (s *PollerSuite) TestRequestsHonorContext(c *C) {
	p := NewPoller(s.cfg, s.volumes, s.view)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Refresh(ctx)
	c.Check(err, Equals, context.DeadlineExceeded)
}

type ViewsSuite struct{}

var _ = Suite(&ViewsSuite{})

func (s *ViewsSuite) TestFanOutInOrder(c *C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	first := mock_services.NewMockView(ctrl)
	second := mock_services.NewMockView(ctrl)

	update := models.VolumeUpdate{Timestamp: time.Unix(10, 0)}
	indicator := models.AccessIndicator{State: models.AccessAccessed, Accessed: true}

	gomock.InOrder(
		first.EXPECT().ShowVolumes(update),
		second.EXPECT().ShowVolumes(update),
		first.EXPECT().ShowAccess(indicator),
		second.EXPECT().ShowAccess(indicator),
	)

	views := Views{first, second}
	views.ShowVolumes(update)
	views.ShowAccess(indicator)
}
