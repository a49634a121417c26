// Package processor runs batch analyses on a bounded worker pool.
package processor

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/analyzer/internal/analyzer"
	"github.com/jonesrussell/analyzer/internal/domain"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/telemetry"
)

const defaultConcurrency = 10

// BatchProcessor analyzes multiple content items in parallel using a worker
// pool. Results keep the order of the submitted items.
type BatchProcessor struct {
	service     *analyzer.Service
	concurrency int
	telemetry   *telemetry.Provider
	logger      logger.Logger
}

// batchJob carries one item and its position in the batch.
type batchJob struct {
	idx  int
	item domain.BatchAnalysisItem
}

// batchResult carries one analysis result back to its position.
type batchResult struct {
	idx    int
	result *domain.AnalysisResult
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(service *analyzer.Service, concurrency int, tel *telemetry.Provider, log logger.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &BatchProcessor{
		service:     service,
		concurrency: concurrency,
		telemetry:   tel,
		logger:      log,
	}
}

// Concurrency returns the worker pool size.
func (b *BatchProcessor) Concurrency() int {
	return b.concurrency
}

// Process analyzes a batch of items using the worker pool. Item semantics
// match the single-item endpoints: text items attempt inference, url items
// always use the statistical scorer. Returns an error only when the context
// is canceled before the batch completes.
func (b *BatchProcessor) Process(ctx context.Context, items []domain.BatchAnalysisItem) ([]*domain.AnalysisResult, error) {
	if len(items) == 0 {
		return []*domain.AnalysisResult{}, nil
	}

	b.logger.Info("Starting batch analysis",
		logger.Int("batch_size", len(items)),
		logger.Int("concurrency", b.concurrency))

	startTime := time.Now()
	b.telemetry.RecordBatchSize(len(items))
	b.telemetry.SetActiveWorkers(b.concurrency)
	b.telemetry.SetQueueDepth(len(items))
	defer func() {
		b.telemetry.SetActiveWorkers(0)
		b.telemetry.SetQueueDepth(0)
	}()

	jobs := make(chan batchJob, len(items))
	results := make(chan batchResult, len(items))

	var wg sync.WaitGroup
	for i := 0; i < b.concurrency; i++ {
		wg.Add(1)
		go b.worker(ctx, i, jobs, results, &wg)
	}

	for idx, item := range items {
		jobs <- batchJob{idx: idx, item: item}
	}
	close(jobs)

	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		b.logger.Warn("Batch analysis canceled",
			logger.Int("batch_size", len(items)),
			logger.Error(err))
		return nil, err
	}

	ordered := make([]*domain.AnalysisResult, len(items))
	for r := range results {
		ordered[r.idx] = r.result
	}

	duration := time.Since(startTime)
	b.logger.Info("Batch analysis complete",
		logger.Int("total", len(items)),
		logger.Int64("duration_ms", duration.Milliseconds()),
		logger.Float64("items_per_second", float64(len(items))/duration.Seconds()))

	return ordered, nil
}

// worker analyzes items from the jobs channel.
func (b *BatchProcessor) worker(
	ctx context.Context,
	id int,
	jobs <-chan batchJob,
	results chan<- batchResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	b.logger.Debug("Worker started", logger.Int("worker_id", id))

	for job := range jobs {
		// Check context cancellation
		select {
		case <-ctx.Done():
			b.logger.Warn("Worker stopping due to context cancellation",
				logger.Int("worker_id", id))
			return
		default:
		}

		results <- batchResult{
			idx:    job.idx,
			result: b.service.AnalyzeItem(ctx, job.item),
		}
	}

	b.logger.Debug("Worker finished", logger.Int("worker_id", id))
}
