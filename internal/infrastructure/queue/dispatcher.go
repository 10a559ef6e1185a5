package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/api/metrics"
	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

const (
	defaultWorkers        = 4
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 200 * time.Millisecond
	channelBuffer         = 256
)

// Dedup remembers completed task ids.
type Dedup interface {
	IsDone(ctx context.Context, taskID string) (bool, error)
	MarkDone(ctx context.Context, taskID string) error
}

// Options tunes a Dispatcher. Zero values select the defaults.
type Options struct {
	Workers        int
	MaxAttempts    int
	InitialBackoff time.Duration
	Buffer         int
	Dedup          Dedup // optional
}

// Dispatcher routes tasks to a fixed set of workers using consistent hashing on
// the task key, so tasks sharing a key run in submission order.
type Dispatcher struct {
	workers        []chan domain.Task
	processor      ports.TaskProcessor
	dedup          Dedup
	maxAttempts    int
	initialBackoff time.Duration
	log            zerolog.Logger
}

var _ ports.TaskQueue = (*Dispatcher)(nil)

func NewDispatcher(processor ports.TaskProcessor, opts Options, log zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.Buffer <= 0 {
		opts.Buffer = channelBuffer
	}

	d := &Dispatcher{
		workers:        make([]chan domain.Task, opts.Workers),
		processor:      processor,
		dedup:          opts.Dedup,
		maxAttempts:    opts.MaxAttempts,
		initialBackoff: opts.InitialBackoff,
		log:            log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Task, opts.Buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Submit hands task to the worker owning its key. It never blocks: when that
// worker's queue is full the task is dropped.
func (d *Dispatcher) Submit(task domain.Task) {
	idx := d.shardIndex(task.Key)
	select {
	case d.workers[idx] <- task:
		metrics.TaskQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.TasksDroppedTotal.WithLabelValues(string(task.Kind)).Inc()
		d.log.Warn().Str("task_id", task.ID).Str("kind", string(task.Kind)).Int("worker_id", idx).Msg("task queue full, dropping task")
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Task) {
	depth := metrics.TaskQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-ch:
			depth.Set(float64(len(ch)))
			d.handle(ctx, id, task)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, workerID int, task domain.Task) {
	kind := string(task.Kind)
	log := d.log.With().Str("task_id", task.ID).Str("kind", kind).Int("worker_id", workerID).Logger()

	if d.dedup != nil {
		done, err := d.dedup.IsDone(ctx, task.ID)
		if err != nil {
			log.Warn().Err(err).Msg("task dedup check failed")
		} else if done {
			metrics.TaskDedupTotal.WithLabelValues("hit").Inc()
			return
		}
		metrics.TaskDedupTotal.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	err := d.runWithRetry(ctx, task, func(err error, wait time.Duration) {
		metrics.TaskRetriesTotal.WithLabelValues(kind).Inc()
		log.Debug().Err(err).Dur("wait", wait).Msg("retrying task")
	})
	metrics.TaskProcessingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.TaskErrorsTotal.WithLabelValues(kind).Inc()
		if errors.Is(err, domain.ErrMailNotConfigured) {
			log.Warn().Msg("email transport not configured, skipping task")
			return
		}
		log.Error().Err(err).Msg("task failed")
		return
	}

	metrics.TasksProcessedTotal.WithLabelValues(kind).Inc()
	if d.dedup != nil {
		if err := d.dedup.MarkDone(ctx, task.ID); err != nil {
			log.Warn().Err(err).Msg("task dedup mark failed")
		}
	}
}

func (d *Dispatcher) runWithRetry(ctx context.Context, task domain.Task, notify backoff.Notify) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.initialBackoff

	op := func() error {
		err := d.processor.Process(ctx, task)
		if errors.Is(err, domain.ErrMailNotConfigured) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(d.maxAttempts-1)), ctx)
	return backoff.RetryNotify(op, b, notify)
}
