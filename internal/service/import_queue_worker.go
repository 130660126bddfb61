package service

import (
	"context"
	"log"
	"sync"
	"time"

	"noteflow/internal/port"
)

// ImportQueueConfig holds settings for the import queue worker.
type ImportQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// ImportQueueWorker polls for queued import jobs and dispatches them through
// the intake pipeline.
type ImportQueueWorker struct {
	jobs    port.ImportJobRepository
	service IntakeService
	cfg     ImportQueueConfig
	wg      sync.WaitGroup
}

// NewImportQueueWorker creates a new ImportQueueWorker.
func NewImportQueueWorker(jobs port.ImportJobRepository, service IntakeService, cfg ImportQueueConfig) *ImportQueueWorker {
	return &ImportQueueWorker{
		jobs:    jobs,
		service: service,
		cfg:     cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight imports have finished.
func (w *ImportQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("importQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("importQueueWorker: shutting down, waiting for in-flight imports...")
			w.wg.Wait()
			log.Printf("importQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := w.jobs.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll, exit on the next tick
					continue
				}
				log.Printf("importQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range jobs {
				job := jobs[i] // copy for goroutine
				job.Attempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight imports complete even during shutdown.
					importCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
					defer cancel()

					log.Printf("importQueueWorker: dispatching job %s (attempt %d)", job.ID, job.Attempts)
					w.service.ProcessImportJob(importCtx, &job, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
