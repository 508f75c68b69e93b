package worker

import (
	"context"
	"sync"
)

// Task is a unit of work producing one result
type Task[T any] func(ctx context.Context) T

type indexedTask[T any] struct {
	idx  int
	task Task[T]
}

type indexedResult[T any] struct {
	idx   int
	value T
}

// Pool runs tasks on a fixed number of workers and returns results in
// submission order
type Pool[T any] struct {
	workers    int
	jobQueue   chan indexedTask[T]
	results    chan indexedResult[T]
	collected  []indexedResult[T]
	collectorD chan struct{}
	submitted  int
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool[T any](ctx context.Context, workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[T]{
		workers:    workers,
		jobQueue:   make(chan indexedTask[T], workers*2),
		results:    make(chan indexedResult[T], workers*2),
		collectorD: make(chan struct{}),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines and the result collector
func (p *Pool[T]) Start() {
	go p.collect()
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T]) collect() {
	defer close(p.collectorD)
	for r := range p.results {
		p.collected = append(p.collected, r)
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.results <- indexedResult[T]{idx: job.idx, value: job.task(p.ctx)}
		}
	}
}

// Submit queues a task. Submitting once the context is done is a no-op.
// Submit must not be called concurrently with Wait.
func (p *Pool[T]) Submit(task Task[T]) {
	if p.ctx.Err() != nil {
		return
	}
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- indexedTask[T]{idx: p.submitted, task: task}:
		p.submitted++
	}
}

// Wait waits for all submitted tasks and returns their results in
// submission order. Slots of tasks that never ran hold the zero value.
func (p *Pool[T]) Wait() []T {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.results)
	<-p.collectorD

	out := make([]T, p.submitted)
	for _, r := range p.collected {
		out[r.idx] = r.value
	}
	p.cancelFunc()
	return out
}
