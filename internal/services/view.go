package services

import "diskmanager/internal/models"

//go:generate mockgen -destination=mock_services/mock_services.go -package=mock_services diskmanager/internal/services VolumeLister,View

// View receives the poller output. Implementations are called from the
// poller goroutine and must not block for long.
type View interface {
	ShowVolumes(update models.VolumeUpdate)
	ShowAccess(indicator models.AccessIndicator)
}

// Views fans every call out to each of its members, in order
type Views []View

func (vs Views) ShowVolumes(update models.VolumeUpdate) {
	for _, v := range vs {
		v.ShowVolumes(update)
	}
}

func (vs Views) ShowAccess(indicator models.AccessIndicator) {
	for _, v := range vs {
		v.ShowAccess(indicator)
	}
}
