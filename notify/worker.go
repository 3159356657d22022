package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Worker retries notifications that the immediate send did not deliver.
type Worker struct {
	notifier        *Notifier
	store           Store
	logger          *slog.Logger
	baseInterval    time.Duration
	maxInterval     time.Duration
	currentInterval time.Duration
	minAge          time.Duration
	batchSize       int
	running         bool
	mu              sync.Mutex
	stopChan        chan struct{}
	doneChan        chan struct{}
}

func NewWorker(notifier *Notifier) *Worker {
	return &Worker{
		notifier:        notifier,
		store:           notifier.store,
		logger:          notifier.logger,
		baseInterval:    1 * time.Minute,
		maxInterval:     5 * time.Minute,
		currentInterval: 1 * time.Minute,
		minAge:          30 * time.Second,
		batchSize:       50,
	}
}

// Start begins the background retry loop
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.doneChan = make(chan struct{})

	w.logger.Info("Starting notification worker")

	if n, err := w.store.ResetStuckNotifications(10 * time.Minute); err != nil {
		w.logger.Error("Failed to reset stuck notifications", "error", err)
	} else if n > 0 {
		w.logger.Info("Reset stuck notifications", "count", n)
	}

	go w.run(w.stopChan, w.doneChan)
}

// Stop ends the retry loop and waits for the current batch to finish
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopChan, doneChan := w.stopChan, w.doneChan
	w.mu.Unlock()

	w.logger.Info("Stopping notification worker")
	close(stopChan)
	<-doneChan
}

// run is the main worker loop with adaptive backoff
func (w *Worker) run(stopChan <-chan struct{}, doneChan chan<- struct{}) {
	defer close(doneChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()

	w.processPending(ctx)

	for {
		select {
		case <-ticker.C:
			hadWork := w.processPending(ctx)

			w.mu.Lock()
			if hadWork {
				if w.currentInterval != w.baseInterval {
					w.currentInterval = w.baseInterval
					ticker.Reset(w.currentInterval)
					w.logger.Debug("Notification work found, reset interval", "interval", w.currentInterval)
				}
			} else if w.currentInterval < w.maxInterval {
				w.currentInterval = w.maxInterval
				ticker.Reset(w.currentInterval)
				w.logger.Debug("No notification work, increased interval", "interval", w.currentInterval)
			}
			w.mu.Unlock()
		case <-stopChan:
			return
		}
	}
}

func (w *Worker) interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentInterval
}

// processPending delivers deliverable notifications that are old enough not to
// race the immediate send. It returns true if there was work.
func (w *Worker) processPending(ctx context.Context) bool {
	notifications, err := w.store.GetDeliverableNotifications(MaxAttempts, w.batchSize)
	if err != nil {
		w.logger.Error("Failed to get pending notifications", "error", err)
		return false
	}

	due := filterRecent(notifications, w.minAge, time.Now())
	if len(due) == 0 {
		return false
	}

	w.logger.Info("Retrying notifications", "count", len(due))

	sent, failed := 0, 0
	for _, n := range due {
		if ctx.Err() != nil {
			break
		}
		if w.notifier.deliver(ctx, n) {
			sent++
		} else {
			failed++
		}
	}

	w.logger.Info("Notification retry complete", "sent", sent, "failed", failed, "total", len(due))
	return true
}
