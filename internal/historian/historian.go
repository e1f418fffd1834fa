// internal/historian/historian.go
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Popper is the part of the Redis client the historian reads with.
type Popper interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Sink persists drained records.
type Sink interface {
	InsertActions(ctx context.Context, records []models.ActionRecord) error
	MarkAbandoned(ctx context.Context, gameID uuid.UUID) error
}

// Config tunes batching and abandonment.
type Config struct {
	Queue         string
	BatchSize     int
	FlushInterval time.Duration
	PopTimeout    time.Duration
	// Inactivity is how long a game may go without actions before it is
	// marked abandoned.
	Inactivity    time.Duration
	SweepInterval time.Duration
}

// Service drains the action queue into the database in batches and marks
// games abandoned once they stop producing actions.
type Service struct {
	pop  Popper
	sink Sink
	cfg  Config
	log  logrus.FieldLogger
	now  func() time.Time

	batchMu sync.Mutex
	batch   []models.ActionRecord

	lastActivity sync.Map // uuid.UUID -> time.Time
}

// New builds a Service; zero Config fields take defaults.
func New(pop Popper, sink Sink, cfg Config, log logrus.FieldLogger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 500 * time.Millisecond
	}
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = 3 * time.Second
	}
	if cfg.Inactivity <= 0 {
		cfg.Inactivity = 10 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		pop:   pop,
		sink:  sink,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		batch: make([]models.ActionRecord, 0, cfg.BatchSize),
	}
}

// Run reads until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.inactivityLoop(ctx)
	}()

	s.log.WithField("queue", s.cfg.Queue).Info("historian service started")
	s.readLoop(ctx)
	wg.Wait()

	// the run context is gone; give the final flush its own deadline
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Flush(flushCtx)
	s.log.Info("historian shutting down")
}

func (s *Service) readLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Flush(ctx)
		default:
			s.PollOnce(ctx)
		}
	}
}

// PollOnce pops at most one record and batches it. It reports whether a
// record was accepted.
func (s *Service) PollOnce(ctx context.Context) bool {
	res, err := s.pop.BLPop(ctx, s.cfg.PopTimeout, s.cfg.Queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			s.log.WithError(err).Error("BLPop failed")
		}
		return false
	}
	if len(res) < 2 {
		return false
	}

	// res[0] is the queue name and res[1] the payload.
	var record models.ActionRecord
	if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
		s.log.WithError(err).Warn("invalid action record")
		return false
	}
	if record.ActionType == game.ActionGameOver {
		s.lastActivity.Delete(record.GameID)
	} else {
		s.lastActivity.Store(record.GameID, s.now())
	}

	s.batchMu.Lock()
	s.batch = append(s.batch, record)
	full := len(s.batch) >= s.cfg.BatchSize
	s.batchMu.Unlock()
	if full {
		s.Flush(ctx)
	}
	return true
}

// Flush writes the pending batch. On failure the records are put back in
// front of the batch so the next flush retries them.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := make([]models.ActionRecord, len(s.batch))
	copy(pending, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.sink.InsertActions(ctx, pending); err != nil {
		s.log.WithError(err).WithField("count", len(pending)).Error("flush failed")
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return
	}
	s.log.WithField("count", len(pending)).Debug("flushed actions")
}

// Pending returns how many records wait for the next flush.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}

func (s *Service) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep marks every game idle longer than Inactivity as abandoned.
func (s *Service) Sweep(ctx context.Context) {
	now := s.now()
	s.lastActivity.Range(func(key, val interface{}) bool {
		gameID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if !ok1 || !ok2 || now.Sub(last) <= s.cfg.Inactivity {
			return true
		}
		if err := s.sink.MarkAbandoned(ctx, gameID); err != nil {
			s.log.WithError(err).WithField("game", gameID).Error("failed to mark game abandoned")
			return true
		}
		s.lastActivity.Delete(gameID)
		s.log.WithField("game", gameID).Info("marked game abandoned due to inactivity")
		return true
	})
}
