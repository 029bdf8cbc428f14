package service

import (
	"log"
	"sync"
	"sync/atomic"
)

// Dispatcher runs notification sends off the request path on a small
// fixed pool, so slow SMTP/SMS calls never block a submission
// response. It is constructed in main and passed down explicitly;
// there is no package-global pool.
type Dispatcher struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int

	enqueued atomic.Int64
	sent     atomic.Int64
	failed   atomic.Int64
	dropped  atomic.Int64

	stopOnce sync.Once
}

type Job struct {
	Name string
	Run  func() error
}

type DispatcherStats struct {
	Enqueued int64 `json:"enqueued"`
	Sent     int64 `json:"sent"`
	Failed   int64 `json:"failed"`
	Dropped  int64 `json:"dropped"`
}

func NewDispatcher(workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 3
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		jobs:    make(chan Job, queueSize),
		workers: workers,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	log.Printf("✅ notification dispatcher started (%d workers)", d.workers)
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for job := range d.jobs {
		if err := job.Run(); err != nil {
			d.failed.Add(1)
			log.Printf("[ERROR] notification %q failed (worker %d): %v", job.Name, id, err)
			continue
		}
		d.sent.Add(1)
	}
}

// Enqueue hands a job to the pool. When the queue is full the job is
// dropped and counted; notifications are best-effort by contract.
func (d *Dispatcher) Enqueue(job Job) bool {
	select {
	case d.jobs <- job:
		d.enqueued.Add(1)
		return true
	default:
		d.dropped.Add(1)
		log.Printf("[WARN] notification queue full, dropped %q", job.Name)
		return false
	}
}

func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Enqueued: d.enqueued.Load(),
		Sent:     d.sent.Load(),
		Failed:   d.failed.Load(),
		Dropped:  d.dropped.Load(),
	}
}

// Stop drains the queue and waits for in-flight sends to finish.
// Already-sent items stay sent; there is no compensation.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.jobs)
		d.wg.Wait()
		stats := d.Stats()
		log.Printf("🔄 notification dispatcher stopped (sent=%d failed=%d dropped=%d)",
			stats.Sent, stats.Failed, stats.Dropped)
	})
}
