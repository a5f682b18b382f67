package msgworker

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// EventJob is one unit of inbox work tied to a single chat. Jobs sharing a
// ChatKey land on the same worker, so per-chat processing stays sequential
// while distinct chats run in parallel.
type EventJob struct {
	ChatKey string
	Handler func(ctx context.Context) error
}

// PoolStats exposes live metrics for the monitoring endpoint.
type PoolStats struct {
	NumWorkers      int   `json:"num_workers"`
	QueueSize       int   `json:"queue_size"`
	TotalDispatched int64 `json:"total_dispatched"`
	TotalProcessed  int64 `json:"total_processed"`
	TotalDropped    int64 `json:"total_dropped"`
	TotalErrors     int64 `json:"total_errors"`
}

// EventWorkerPool fans incoming gateway events out to a fixed set of workers,
// sharded by chat key.
type EventWorkerPool struct {
	numWorkers int
	queueSize  int
	workers    []*worker
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stopped    int32

	totalDispatched int64
	totalProcessed  int64
	totalDropped    int64
	totalErrors     int64
}

type worker struct {
	id       int
	jobQueue chan EventJob
	pool     *EventWorkerPool
}

func NewEventWorkerPool(numWorkers, queueSize int) *EventWorkerPool {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &EventWorkerPool{
		numWorkers: numWorkers,
		queueSize:  queueSize,
		workers:    make([]*worker, numWorkers),
	}
}

// Start launches every worker goroutine. Workers exit when ctx is cancelled
// or Stop closes their queues.
func (p *EventWorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		w := &worker{
			id:       i,
			jobQueue: make(chan EventJob, p.queueSize),
			pool:     p,
		}
		p.workers[i] = w
		p.wg.Add(1)
		go w.run(ctx, &p.wg)
	}
	logrus.Infof("[EVENT_POOL] Started with %d workers, queue size %d", p.numWorkers, p.queueSize)
}

// TryDispatch enqueues a job without blocking. Returns false when the pool is
// stopped or the target worker's queue is full; the event is dropped and the
// next poll cycle re-fetches the same data, so a drop is never a lost update.
func (p *EventWorkerPool) TryDispatch(job EventJob) bool {
	if atomic.LoadInt32(&p.stopped) == 1 {
		atomic.AddInt64(&p.totalDropped, 1)
		return false
	}

	shard := p.shardFor(job.ChatKey)
	atomic.AddInt64(&p.totalDispatched, 1)

	sent := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		select {
		case p.workers[shard].jobQueue <- job:
			return true
		default:
			return false
		}
	}()

	if !sent {
		atomic.AddInt64(&p.totalDropped, 1)
		logrus.Warnf("[EVENT_POOL] Worker %d queue full, dropping event for chat %s", shard, job.ChatKey)
	}
	return sent
}

// Dispatch enqueues a job, silently dropping it under backpressure.
func (p *EventWorkerPool) Dispatch(job EventJob) {
	_ = p.TryDispatch(job)
}

// Stop drains and joins every worker.
func (p *EventWorkerPool) Stop() {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		for _, w := range p.workers {
			close(w.jobQueue)
		}
		p.wg.Wait()
		logrus.Info("[EVENT_POOL] All workers stopped")
	})
}

func (p *EventWorkerPool) shardFor(chatKey string) int {
	h := fnv.New32a()
	h.Write([]byte(chatKey))
	return int(h.Sum32() % uint32(p.numWorkers))
}

func (p *EventWorkerPool) GetStats() PoolStats {
	return PoolStats{
		NumWorkers:      p.numWorkers,
		QueueSize:       p.queueSize,
		TotalDispatched: atomic.LoadInt64(&p.totalDispatched),
		TotalProcessed:  atomic.LoadInt64(&p.totalProcessed),
		TotalDropped:    atomic.LoadInt64(&p.totalDropped),
		TotalErrors:     atomic.LoadInt64(&p.totalErrors),
	}
}

func (w *worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			if err := job.Handler(ctx); err != nil {
				atomic.AddInt64(&w.pool.totalErrors, 1)
				logrus.WithError(err).Warnf("[EVENT_POOL] Worker %d failed on chat %s", w.id, job.ChatKey)
			}
			atomic.AddInt64(&w.pool.totalProcessed, 1)
		}
	}
}
