package utils

import (
	"sync"
	"time"
)

// WorkerPool bounds how many submitted jobs run simultaneously. Admission
// is FIFO: Submit blocks the caller until a slot frees up, so jobs start
// in submission order. A slot is always released when its job returns,
// and every submitted job runs exactly once.
type WorkerPool struct {
	semaphore chan struct{}
	wg        sync.WaitGroup

	rateLimit time.Duration
	mu        sync.Mutex
	lastAdmit time.Time
}

// NewWorkerPool creates a pool admitting at most capacity jobs at once.
// rateLimit, when non-zero, enforces a minimum interval between job starts.
func NewWorkerPool(capacity int, rateLimit time.Duration) *WorkerPool {
	if capacity < 1 {
		capacity = 1
	}
	return &WorkerPool{
		semaphore: make(chan struct{}, capacity),
		rateLimit: rateLimit,
		lastAdmit: time.Now(),
	}
}

// Submit enqueues a job for execution. It blocks until the pool has a free
// slot; the job's results must be propagated through its own closure.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		wp.pace()
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) pace() {
	if wp.rateLimit <= 0 {
		return
	}

	wp.mu.Lock()
	defer wp.mu.Unlock()

	elapsed := time.Since(wp.lastAdmit)
	if elapsed < wp.rateLimit {
		time.Sleep(wp.rateLimit - elapsed)
	}
	wp.lastAdmit = time.Now()
}
