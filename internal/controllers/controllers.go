package controllers

import (
	"context"
	"sync/atomic"

	"diskmanager/internal/logging"
	"diskmanager/internal/middleware"
	"diskmanager/internal/models"
	"diskmanager/internal/services"

	"github.com/sirupsen/logrus"
)

// Poller is the part of services.Poller the HTTP API drives
type Poller interface {
	Mode() models.Mode
	Refresh(ctx context.Context) (models.VolumeUpdate, error)
	TriggerAccess(ctx context.Context) (bool, error)
}

// Handlers serves the HTTP and WebSocket API
type Handlers struct {
	Poller   Poller
	Cache    *services.StateCache
	History  *services.HistoryCollector
	Hub      *services.WebSocketHub
	Security *middleware.SecurityLogger

	clients atomic.Uint64
	logger  *logrus.Entry
}

func NewHandlers(poller Poller, cache *services.StateCache, history *services.HistoryCollector, hub *services.WebSocketHub) *Handlers {
	return &Handlers{
		Poller:   poller,
		Cache:    cache,
		History:  history,
		Hub:      hub,
		Security: middleware.NewSecurityLogger(),
		logger:   logging.NewLogger("api"),
	}
}
