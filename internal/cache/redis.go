// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list the historian drains.
const DefaultQueueName = "daifugo_actions"

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Pusher is the part of the Redis client the publisher uses.
type Pusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Publisher pushes action records onto a Redis list in the order they were
// recorded. RecordAction never blocks the engine: records are queued and sent
// by a single background worker; if the queue is full the record is dropped
// and logged.
type Publisher struct {
	client  Pusher
	queue   string
	timeout time.Duration
	log     logrus.FieldLogger

	mu     sync.Mutex
	closed bool
	ch     chan []byte
	done   chan struct{}
}

// NewPublisher starts the worker. Close must be called to flush and stop it.
func NewPublisher(client Pusher, queue string, log logrus.FieldLogger) *Publisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &Publisher{
		client:  client,
		queue:   queue,
		timeout: 2 * time.Second,
		log:     log,
		ch:      make(chan []byte, 1024),
		done:    make(chan struct{}),
	}
	go p.loop()
	return p
}

// Publish serializes record and pushes it synchronously.
func (p *Publisher) Publish(ctx context.Context, record models.ActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	return p.push(ctx, data)
}

func (p *Publisher) push(ctx context.Context, data []byte) error {
	if err := p.client.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// RecordAction queues record for publishing.
func (p *Publisher) RecordAction(record models.ActionRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		p.log.WithError(err).WithField("action", record.ActionType).Error("failed to marshal action record")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.WithField("action", record.ActionType).Warn("publisher closed, action dropped")
		return
	}
	select {
	case p.ch <- data:
	default:
		p.log.WithFields(logrus.Fields{
			"game":   record.GameID,
			"index":  record.ActionIndex,
			"action": record.ActionType,
		}).Warn("publish queue full, action dropped")
	}
}

func (p *Publisher) loop() {
	defer close(p.done)
	for data := range p.ch {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.push(ctx, data); err != nil {
			p.log.WithError(err).Warn("failed to publish action")
		}
		cancel()
	}
}

// Close stops accepting records and waits until every queued record was sent.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.ch)
	p.mu.Unlock()
	<-p.done
}
