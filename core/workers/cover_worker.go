// ABOUTME: Cover worker extracts cover colours in the background after a server is saved
// ABOUTME: Provides a bounded worker pool with a job queue and graceful shutdown

package workers

import (
	"context"
	"sync"
	"time"

	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/interfaces"
	"serverlist-api/pkg/metrics"
)

// enqueueTimeout is how long Enqueue waits for room in a full queue
const enqueueTimeout = 5 * time.Second

// jobTimeout bounds a single colour extraction
const jobTimeout = 30 * time.Second

// CoverJob is one server cover waiting for colour extraction
type CoverJob struct {
	ServerID int64
	Cover    string
}

// WorkerConfig holds configuration for the cover worker
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers: 2,
		QueueSize:  100,
	}
}

// CoverWorker manages background cover colour extraction
type CoverWorker struct {
	colors  interfaces.CoverColorService
	sink    interfaces.CoverColorSink
	logger  interfaces.Logger
	metrics *metrics.Metrics

	maxWorkers int
	queueSize  int

	mu       sync.RWMutex
	running  bool
	jobQueue chan CoverJob
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCoverWorker creates a new cover worker. m may be nil.
func NewCoverWorker(colors interfaces.CoverColorService, sink interfaces.CoverColorSink, logger interfaces.Logger, m *metrics.Metrics, config WorkerConfig) *CoverWorker {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultWorkerConfig().MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultWorkerConfig().QueueSize
	}

	return &CoverWorker{
		colors:     colors,
		sink:       sink,
		logger:     logger,
		metrics:    m,
		maxWorkers: config.MaxWorkers,
		queueSize:  config.QueueSize,
	}
}

// Start starts the worker pool
func (cw *CoverWorker) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return nil
	}

	cw.ctx, cw.cancel = context.WithCancel(context.Background())
	cw.jobQueue = make(chan CoverJob, cw.queueSize)

	for i := 0; i < cw.maxWorkers; i++ {
		cw.wg.Add(1)
		go cw.run(cw.ctx, cw.jobQueue)
	}

	cw.running = true
	return nil
}

// Stop stops the worker pool. Jobs already queued are drained first.
func (cw *CoverWorker) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}

	close(cw.jobQueue)
	cw.wg.Wait()
	cw.cancel()

	cw.running = false
	return nil
}

// Enqueue schedules colour extraction for a server cover
func (cw *CoverWorker) Enqueue(serverID int64, cover string) error {
	cw.mu.RLock()
	defer cw.mu.RUnlock()

	if !cw.running {
		return ErrWorkerNotRunning
	}

	timer := time.NewTimer(enqueueTimeout)
	defer timer.Stop()

	select {
	case cw.jobQueue <- CoverJob{ServerID: serverID, Cover: cover}:
		return nil
	case <-timer.C:
		return ErrQueueFull
	}
}

// run is the main loop for each worker
func (cw *CoverWorker) run(ctx context.Context, jobs <-chan CoverJob) {
	defer cw.wg.Done()

	for job := range jobs {
		cw.process(ctx, job)
	}
}

func (cw *CoverWorker) process(ctx context.Context, job CoverJob) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	color, err := cw.colors.ExtractColor(ctx, job.Cover)
	if err != nil {
		result := "error"
		if coreerrors.IsExternalAPI(err) {
			result = "unreachable"
		}
		cw.metrics.CoverJob(result)
		cw.logger.Warn("Failed to extract cover color", map[string]interface{}{
			"server_id": job.ServerID,
			"url":       job.Cover,
			"error":     err.Error(),
		})
		return
	}

	if err := cw.sink.SetCoverColor(ctx, job.ServerID, color.Hex()); err != nil {
		cw.metrics.CoverJob("error")
		cw.logger.Error("Failed to store cover color", map[string]interface{}{
			"server_id": job.ServerID,
			"error":     err.Error(),
		})
		return
	}

	cw.metrics.CoverJob("ok")
	cw.logger.Debug("Cover color extracted", map[string]interface{}{
		"server_id": job.ServerID,
		"color":     color.Hex(),
	})
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
