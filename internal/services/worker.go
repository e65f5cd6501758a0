package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/matching"
	"farmfund/grant-matcher/internal/repositories"
)

// Worker owns the background goroutines: the extraction job pool, the
// pending-extraction poller, and the periodic catalog refresh.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(extractionID uuid.UUID)
}

type worker struct {
	extractionRepo repositories.ExtractionRepository
	extractor      ExtractorService
	catalog        *matching.Catalog
	reloadInterval time.Duration
	jobQueue       chan uuid.UUID
	concurrency    int
	wg             sync.WaitGroup
	stopChan       chan struct{}
	logger         *zap.Logger
}

func NewWorker(
	extractionRepo repositories.ExtractionRepository,
	extractor ExtractorService,
	catalog *matching.Catalog,
	reloadInterval time.Duration,
	concurrency int,
	logger *zap.Logger,
) Worker {
	return &worker{
		extractionRepo: extractionRepo,
		extractor:      extractor,
		catalog:        catalog,
		reloadInterval: reloadInterval,
		jobQueue:       make(chan uuid.UUID, 100),
		concurrency:    concurrency,
		stopChan:       make(chan struct{}),
		logger:         logger,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.wg.Add(1)
	go w.refreshCatalog(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(extractionID uuid.UUID) {
	select {
	case w.jobQueue <- extractionID:
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue job",
			zap.String("extraction_id", extractionID.String()),
		)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case extractionID := <-w.jobQueue:
			if err := w.extractor.ExtractDocument(ctx, extractionID); err != nil {
				w.logger.Error("extraction job failed",
					zap.Int("worker", workerID),
					zap.String("extraction_id", extractionID.String()),
					zap.Error(err),
				)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pendingJobs, err := w.extractionRepo.FindPendingJobs(10)
			if err != nil {
				w.logger.Warn("failed to fetch pending jobs", zap.Error(err))
				continue
			}
			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}

// refreshCatalog reloads the grant snapshot on the configured interval. A
// failed reload only logs; matching keeps serving the prior snapshot.
func (w *worker) refreshCatalog(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.reloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			if err := w.catalog.Load(ctx); err != nil {
				w.logger.Warn("catalog refresh failed", zap.Error(err))
			}
		}
	}
}
