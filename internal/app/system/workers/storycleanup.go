// internal/app/system/workers/storycleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	storystore "github.com/blackhatcommit/commithub/internal/app/store/stories"
	"go.uber.org/zap"
)

// StoryCleanup is a background worker that deletes expired stories.
// Expiry filtering on the read path keeps expired stories out of
// listings immediately; this worker is what actually removes the
// documents, so cleanup never hides inside a read.
type StoryCleanup struct {
	stories  *storystore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewStoryCleanup creates a new story cleanup worker.
//
// Parameters:
//   - stories: the stories store
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 10 minutes)
func NewStoryCleanup(stories *storystore.Store, logger *zap.Logger, interval time.Duration) *StoryCleanup {
	return &StoryCleanup{
		stories:  stories,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *StoryCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("story cleanup worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *StoryCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("story cleanup worker stopped")
}

func (w *StoryCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *StoryCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.stories.DeleteExpired(ctx, time.Now())
	if err != nil {
		w.log.Error("failed to delete expired stories", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("deleted expired stories", zap.Int64("count", count))
	}
}
