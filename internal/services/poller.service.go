package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"diskmanager/internal/logging"
	"diskmanager/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

var (
	ErrSimulationDisabled = errors.New("simulated access is only available in simulated mode")
	ErrStopped            = errors.New("poller is not running")
	ErrAlreadyRunning     = errors.New("poller is already running")
)

// PollerConfig holds the poller schedules
type PollerConfig struct {
	Mode            models.Mode
	RefreshInterval time.Duration
	AccessInterval  time.Duration
	AccessDuration  time.Duration
	EvictAbsent     bool
}

type refreshResult struct {
	update models.VolumeUpdate
	err    error
}

type triggerResult struct {
	started bool
	err     error
}

// Poller drives the volume table refresh and the access indicator. Every
// timer, request and simulated access completion is handled by the single
// goroutine executing Run.
type Poller struct {
	cfg      PollerConfig
	volumes  VolumeLister
	view     View
	detector *AccessDetector
	task     AccessTask

	refreshes chan chan refreshResult
	triggers  chan chan triggerResult
	finished  chan struct{}
	done      chan struct{}
	running   atomic.Bool

	now    func() time.Time
	logger *logrus.Entry
}

func NewPoller(cfg PollerConfig, volumes VolumeLister, view View) *Poller {
	return &Poller{
		cfg:       cfg,
		volumes:   volumes,
		view:      view,
		detector:  NewAccessDetector(cfg.EvictAbsent),
		refreshes: make(chan chan refreshResult),
		triggers:  make(chan chan triggerResult),
		finished:  make(chan struct{}, 1),
		done:      make(chan struct{}),
		now:       time.Now,
		logger:    logging.NewLogger("poller"),
	}
}

func (p *Poller) Mode() models.Mode {
	return p.cfg.Mode
}

// Run polls until ctx is done. It refreshes the table once before waiting
// on the first tick.
func (p *Poller) Run(ctx context.Context) error {
	if p.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer close(p.done)

	p.logger.WithFields(logrus.Fields{
		"mode":    p.cfg.Mode,
		"refresh": p.cfg.RefreshInterval,
	}).Info("poller started")

	p.view.ShowAccess(p.indicator(models.AccessIdle, nil))
	p.refresh(ctx)

	refresh := time.NewTicker(p.cfg.RefreshInterval)
	defer refresh.Stop()

	var accessTicks <-chan time.Time
	if p.cfg.Mode == models.ModeChange {
		access := time.NewTicker(p.cfg.AccessInterval)
		defer access.Stop()
		accessTicks = access.C
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return nil
		case <-refresh.C:
			p.refresh(ctx)
		case <-accessTicks:
			p.checkAccess(ctx)
		case reply := <-p.refreshes:
			update, err := p.refresh(ctx)
			reply <- refreshResult{update: update, err: err}
		case reply := <-p.triggers:
			reply <- p.startAccess(ctx)
		case <-p.finished:
			p.finishAccess()
		}
	}
}

// Refresh forces an immediate table refresh and returns its result
func (p *Poller) Refresh(ctx context.Context) (models.VolumeUpdate, error) {
	reply := make(chan refreshResult, 1)
	select {
	case p.refreshes <- reply:
	case <-p.done:
		return models.VolumeUpdate{}, ErrStopped
	case <-ctx.Done():
		return models.VolumeUpdate{}, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.update, res.err
	case <-ctx.Done():
		return models.VolumeUpdate{}, ctx.Err()
	}
}

// TriggerAccess starts a simulated access. It reports false without error
// when an access is already running.
func (p *Poller) TriggerAccess(ctx context.Context) (bool, error) {
	if p.cfg.Mode != models.ModeSimulated {
		return false, ErrSimulationDisabled
	}

	reply := make(chan triggerResult, 1)
	select {
	case p.triggers <- reply:
	case <-p.done:
		return false, ErrStopped
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.started, res.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (p *Poller) refresh(ctx context.Context) (models.VolumeUpdate, error) {
	volumes, err := p.volumes.ListVolumes(ctx)
	if err != nil {
		// views keep their last rows
		p.logger.WithError(err).Error("could not refresh volumes")
		return models.VolumeUpdate{}, err
	}

	update := models.VolumeUpdate{
		Timestamp: p.now(),
		Volumes:   volumes,
		Rows:      FormatRows(volumes),
	}
	p.view.ShowVolumes(update)
	p.logger.WithField("volumes", len(volumes)).Trace("volumes refreshed")
	return update, nil
}

func (p *Poller) checkAccess(ctx context.Context) {
	volumes, err := p.volumes.ListVolumes(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("could not check disk access")
		return
	}

	flagged := p.detector.Note(volumes)
	if len(flagged) == 0 {
		p.view.ShowAccess(p.indicator(models.AccessIdle, nil))
		return
	}

	for _, v := range volumes {
		if flagged.Has(v.Device) == false {
			continue
		}
		p.logger.WithFields(logrus.Fields{
			"device": v.Device,
			"used":   humanize.IBytes(v.UsedBytes),
		}).Debug("disk accessed")
	}
	p.view.ShowAccess(p.indicator(models.AccessAccessed, flagged.Sorted()))
}

func (p *Poller) startAccess(ctx context.Context) triggerResult {
	if p.task.State() == TaskRunning {
		p.logger.WithField("since", p.task.Since()).Debug("simulated access already running")
		return triggerResult{started: false}
	}
	if err := p.task.Start(p.now()); err != nil {
		return triggerResult{err: err}
	}

	p.logger.WithField("duration", p.cfg.AccessDuration).Info("simulated access started")
	p.view.ShowAccess(p.indicator(models.AccessRunning, nil))
	go simulateAccess(ctx, p.cfg.AccessDuration, p.finished)
	return triggerResult{started: true}
}

func (p *Poller) finishAccess() {
	if err := p.task.Finish(); err != nil {
		p.logger.WithError(err).Warn("unexpected access completion")
		return
	}
	p.logger.Info("simulated access finished")
	p.view.ShowAccess(p.indicator(models.AccessIdle, nil))
}

func (p *Poller) indicator(state models.AccessState, devices []string) models.AccessIndicator {
	return models.AccessIndicator{
		Timestamp: p.now(),
		Mode:      p.cfg.Mode,
		State:     state,
		Accessed:  state != models.AccessIdle,
		Devices:   devices,
	}
}
