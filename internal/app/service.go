// Package service records registrations into the roster's three views.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/domain/dedupe"
	"github.com/okian/roster/internal/domain/ledger"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/types"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

// Service holds the registration log, the unique-name set, and the score
// mapping for a single roster.
type Service struct {
	mu sync.Mutex

	// Core components
	log     ledger.Log
	deduper dedupe.Deduper
	scores  repository.Store

	// Configuration
	capacity int

	// Observability
	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCapacity presizes the containers for the expected number of registrations.
func WithCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager; the process-wide one is used otherwise.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithStore replaces the score mapping implementation.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.scores = store
		}
	}
}

// New constructs a Service with empty containers.
func New(opts ...Option) *Service {
	s := &Service{
		logger:  logger.Nop(),
		metrics: metrics.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.log = ledger.NewInMemoryLog(ledger.WithCapacity(s.capacity))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithCapacity(s.capacity))
	if s.scores == nil {
		s.scores = repository.NewTreapStore(repository.WithCapacity(s.capacity))
	}
	return s
}

// Register records one registration: the name is appended to the log,
// inserted into the unique set, and its score upserted (last write wins).
// An invalid registration is rejected before any container changes.
func (s *Service) Register(ctx context.Context, reg model.Registration) error {
	if err := reg.Validate(); err != nil {
		s.metrics.RecordRejected()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The store is the only container that can fail, so it goes first.
	prev, replaced, err := s.scores.Upsert(ctx, reg.Name, reg.Score)
	if err != nil {
		return fmt.Errorf("record %q: %w", reg.Name, err)
	}
	n := s.log.Append(ctx, reg.Name)
	seen := s.deduper.SeenAndRecord(ctx, reg.Name)

	s.metrics.RecordRegistration()
	s.metrics.UpdateLogLength(n)
	if seen {
		s.metrics.RecordDuplicateName()
	} else {
		s.metrics.UpdateUniqueParticipants(int(s.deduper.Size()))
	}
	if replaced {
		s.metrics.RecordScoreOverwrite()
		s.logger.Debug(ctx, "score overwritten",
			logger.String("name", reg.Name),
			logger.Int("previous", prev),
			logger.Int("score", reg.Score),
		)
	}
	return nil
}

// Ingest registers every registration in order. It stops at the first
// failure or when ctx is cancelled.
func (s *Service) Ingest(ctx context.Context, regs []model.Registration) error {
	start := time.Now()
	defer func() { s.metrics.ObserveIngest(time.Since(start)) }()

	for i, reg := range regs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Register(ctx, reg); err != nil {
			s.logger.Error(ctx, "registration failed", logger.Int("index", i), logger.Error(err))
			return fmt.Errorf("registration %d: %w", i, err)
		}
	}

	stats := s.GetStats()
	s.logger.Info(ctx, "ingest complete",
		logger.Int("registrations", stats["registrations"]),
		logger.Int("unique", stats["unique"]),
		logger.Int("scores", stats["scores"]),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Participants returns every registered name in arrival order.
func (s *Service) Participants(ctx context.Context) []string {
	return s.log.Names(ctx)
}

// Unique returns the deduplicated names in lexicographic order.
func (s *Service) Unique(ctx context.Context) []string {
	return s.deduper.Names(ctx)
}

// Scores returns the latest score per name in lexicographic order.
func (s *Service) Scores(ctx context.Context) ([]types.Entry, error) {
	entries, err := s.scores.Ascend(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = types.Entry{Name: e.Name, Score: e.Score}
	}
	return out, nil
}

// Report assembles the three views.
func (s *Service) Report(ctx context.Context) (types.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores, err := s.Scores(ctx)
	if err != nil {
		return types.Report{}, err
	}
	return types.Report{
		Participants: s.Participants(ctx),
		Unique:       s.Unique(ctx),
		Scores:       scores,
	}, nil
}

// GetStats returns the size of each view; Ingest logs it on completion.
func (s *Service) GetStats() map[string]int {
	ctx := context.Background()
	return map[string]int{
		"registrations": s.log.Len(ctx),
		"unique":        int(s.deduper.Size()),
		"scores":        s.scores.Count(ctx),
	}
}
