package queue

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/webasthetic/leadmailer-backend/internal/model"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-memory queue with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			log.Printf("Job processed successfully: %+v\n", job.Payload)
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// BatchRunner is implemented by the dispatcher; declared here so the
// subscriber does not pull in the service package.
type BatchRunner interface {
	RunBatch(ctx context.Context) (*model.BatchSummary, error)
}

// Notifier reports a finished batch to a callback URL.
type Notifier interface {
	NotifyComplete(callbackURL string, summary *model.BatchSummary, runErr error)
}

// DispatchJob triggers one batch run. CallbackURL is optional.
type DispatchJob struct {
	CallbackURL string `json:"callback_url,omitempty"`
}

// StartDispatchSubscriber wires the email_dispatch topic to the batch
// runner. An auth failure is not retried through the queue: re-running with
// the same bad credentials cannot succeed.
func StartDispatchSubscriber(q Queue, runner BatchRunner, notifier Notifier) {
	go func() {
		err := q.Subscribe("email_dispatch", func(payload any) error {
			job, ok := payload.(DispatchJob)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected DispatchJob")
				return nil // no retry
			}

			log.Println("📩 Processing queued dispatch trigger")

			summary, err := runner.RunBatch(context.Background())
			if notifier != nil {
				notifier.NotifyComplete(job.CallbackURL, summary, err)
			}
			if err != nil {
				log.Println("⚠️ Dispatch batch failed:", err)
				return nil // counts are in the summary, re-running re-sends nothing already marked
			}

			log.Printf("✅ Dispatch batch %s done: sent=%d failed=%d", summary.BatchID, summary.Sent, summary.Failed)
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for email_dispatch:", err)
		}
	}()
}
