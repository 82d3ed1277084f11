package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultInterval = 30 * time.Second

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "worker",
})

type Saver interface {
	Save(ctx context.Context) error
	SaveIfDirty(ctx context.Context) (bool, error)
}

type SaveSessionWorker struct {
	saver       Saver
	interval    time.Duration
	saveTimeout time.Duration
}

type NewSaveSessionWorkerOptions struct {
	Saver    Saver
	Interval time.Duration
	// SaveTimeout bounds every save, including the final one.
	SaveTimeout time.Duration
}

// NewSaveSessionWorker creates a worker that periodically saves the session
// when it changed, and saves it one last time when stopped.
func NewSaveSessionWorker(opts NewSaveSessionWorkerOptions) *SaveSessionWorker {
	w := &SaveSessionWorker{
		saver:       opts.Saver,
		interval:    opts.Interval,
		saveTimeout: opts.SaveTimeout,
	}
	if w.interval <= 0 {
		w.interval = DefaultInterval
	}
	if w.saveTimeout <= 0 {
		w.saveTimeout = 5 * time.Second
	}
	return w
}

// Start blocks until ctx is cancelled.
func (w *SaveSessionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.finalSave()
			return
		case <-ticker.C:
			w.saveIfDirty(ctx)
		}
	}
}

func (w *SaveSessionWorker) saveIfDirty(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.saveTimeout)
	defer cancel()

	saved, err := w.saver.SaveIfDirty(ctx)
	if err != nil {
		log.WithError(err).Error("failed to autosave session")
		return
	}
	if saved {
		log.Debug("autosaved session")
	}
}

func (w *SaveSessionWorker) finalSave() {
	ctx, cancel := context.WithTimeout(context.Background(), w.saveTimeout)
	defer cancel()

	if err := w.saver.Save(ctx); err != nil {
		log.WithError(err).Error("failed to save session on shutdown")
		return
	}
	log.Info("saved session on shutdown")
}
