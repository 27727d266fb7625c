package publish

import (
	"context"

	"aircon-bridge/internal/climate"
	"aircon-bridge/internal/logger"
)

// Publisher defines the interface for publishing a message to the broker.
type Publisher interface {
	Publish(topic string, payload any, retained bool) error
}

// StateTopic is the retained topic an entity's state is mirrored to.
func StateTopic(entityID string) string {
	return entityID + "/state"
}

// WorkerPool manages a pool of workers that publish entity states.
type WorkerPool struct {
	size      int
	jobs      chan []climate.State
	publisher Publisher
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, publisher Publisher) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:      size,
		jobs:      make(chan []climate.State, size),
		publisher: publisher,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	logger.Debug("publish worker %d started", id)
	for {
		select {
		case states := <-wp.jobs:
			wp.publishStates(states)
		case <-ctx.Done():
			logger.Debug("publish worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues states for publishing. When every worker is busy and the
// queue is full the batch is dropped; the next refresh supersedes it anyway.
func (wp *WorkerPool) Dispatch(states []climate.State) bool {
	select {
	case wp.jobs <- states:
		return true
	default:
		logger.Warn("publish queue full, dropping %d states", len(states))
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan []climate.State {
	return wp.jobs
}

func (wp *WorkerPool) publishStates(states []climate.State) {
	for _, st := range states {
		if err := wp.publisher.Publish(StateTopic(st.EntityID), st, true); err != nil {
			logger.Warn("error publishing state of %s: %v", st.EntityID, err)
		}
	}
}
