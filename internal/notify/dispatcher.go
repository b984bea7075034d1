package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tutorway/tutorway-api/internal/platform/logger"
	"github.com/tutorway/tutorway-api/internal/redact"
)

// Config holds configuration for the dispatcher.
type Config struct {
	// QueueSize is the number of messages that can wait for a worker.
	QueueSize int

	// WorkerCount is the number of concurrent senders. Defaults to 1.
	WorkerCount int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize:   100,
		WorkerCount: 2,
	}
}

// Dispatcher delivers messages in the background through a Sender.
type Dispatcher struct {
	queue       *Queue
	sender      Sender
	workerCount int
	logger      *slog.Logger

	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once

	handlerMu  sync.RWMutex
	errHandler func(job Job, err error)
}

// NewDispatcher creates a Dispatcher. Call Start before messages are delivered.
func NewDispatcher(sender Sender, cfg Config, log *slog.Logger) (*Dispatcher, error) {
	if sender == nil {
		return nil, errors.New("sender cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "notify_dispatcher"))

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		log.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		queue:       NewQueue(cfg.QueueSize, log),
		sender:      sender,
		workerCount: workerCount,
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
	}
	d.errHandler = d.logFailure
	return d, nil
}

// SetErrorHandler replaces the function called when a send fails.
// A nil handler restores the default, which logs the failure.
func (d *Dispatcher) SetErrorHandler(handler func(job Job, err error)) {
	d.handlerMu.Lock()
	defer d.handlerMu.Unlock()

	if handler == nil {
		handler = d.logFailure
	}
	d.errHandler = handler
}

// Dispatch queues msg for delivery and returns immediately.
// The message is dropped, with a warning, when it is invalid, the queue is
// full, or the dispatcher has been stopped; the returned error says which.
// Delivery runs with ctx's values but not its cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.FromContextOrDefault(ctx, d.logger)

	if err := msg.Validate(); err != nil {
		log.Warn("notification dropped", "reason", "invalid message", "error", err.Error())
		return err
	}

	job := Job{
		ID:         uuid.New(),
		Message:    msg,
		EnqueuedAt: time.Now(),
		ctx:        context.WithoutCancel(ctx),
	}

	if err := d.queue.Enqueue(job); err != nil {
		log.Warn("notification dropped",
			"job_id", job.ID.String(),
			"subject", msg.Subject,
			"error", err.Error())
		return err
	}
	return nil
}

// Start launches the worker goroutines. Calling Start more than once is a no-op.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.logger.Info("starting notification dispatcher",
			"worker_count", d.workerCount,
			"queue_size", cap(d.queue.jobs))

		for i := 0; i < d.workerCount; i++ {
			d.wg.Add(1)
			go d.worker(i)
		}
	})
}

// Stop closes the queue and waits for buffered messages to be delivered.
// If ctx expires first, the remaining messages are abandoned and ctx.Err() is returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.queue.Close()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		if n := d.queue.Len(); n > 0 {
			d.logger.Warn("notification dispatcher stopped before start, messages dropped", "dropped", n)
		}
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		d.logger.Warn("notification dispatcher stop timed out",
			"pending", d.queue.Len(),
			"error", ctx.Err().Error())
		return ctx.Err()
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	log := d.logger.With("worker_id", id)
	log.Debug("notification worker started")

	for {
		select {
		case <-d.ctx.Done():
			log.Debug("notification worker cancelled")
			return
		case job, ok := <-d.queue.Jobs():
			if !ok {
				log.Debug("notification worker finished, queue closed")
				return
			}
			d.process(job)
		}
	}
}

func (d *Dispatcher) process(job Job) {
	defer func() {
		if r := recover(); r != nil {
			d.handleError(job, fmt.Errorf("sender panicked: %v", r))
		}
	}()

	start := time.Now()
	if err := d.sender.Send(job.ctx, job.Message); err != nil {
		d.handleError(job, err)
		return
	}

	logger.FromContextOrDefault(job.ctx, d.logger).Debug("notification sent",
		"job_id", job.ID.String(),
		"queued_for", start.Sub(job.EnqueuedAt).String(),
		"duration", time.Since(start).String())
}

func (d *Dispatcher) handleError(job Job, err error) {
	d.handlerMu.RLock()
	handler := d.errHandler
	d.handlerMu.RUnlock()

	handler(job, err)
}

func (d *Dispatcher) logFailure(job Job, err error) {
	logger.FromContextOrDefault(job.ctx, d.logger).Error("notification delivery failed",
		"job_id", job.ID.String(),
		"subject", job.Message.Subject,
		"error", redact.Error(err))
}
