package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"propchain/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrAlreadyRunning перестроение индекса уже идёт, запуск пропущен
var ErrAlreadyRunning = errors.New("reindex already running")

type PropertySource interface {
	All(ctx context.Context) ([]*model.Property, error)
}

type Indexer interface {
	IndexProperties(ctx context.Context, properties []*model.Property) error
}

// Scheduler периодически перестраивает поисковый индекс объектов
type Scheduler struct {
	cron     *cron.Cron
	source   PropertySource
	indexer  Indexer
	schedule string
	timeout  time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
}

func New(source PropertySource, indexer Indexer, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		source:   source,
		indexer:  indexer,
		schedule: schedule,
		timeout:  time.Minute,
		logger:   logger,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.RunNow(ctx); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			s.logger.Error("scheduled reindex failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reindex schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("reindex scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop ждёт завершения запущенной задачи
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("reindex scheduler stopped")
}

// RunNow перестраивает индекс немедленно. Параллельный запуск пропускается
// и возвращает ErrAlreadyRunning
func (s *Scheduler) RunNow(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("reindex already running, skipped")
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	properties, err := s.source.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load properties for reindex: %w", err)
	}
	if err := s.indexer.IndexProperties(ctx, properties); err != nil {
		return fmt.Errorf("failed to reindex properties: %w", err)
	}

	s.logger.Info("reindex completed",
		zap.Int("properties", len(properties)),
		zap.Duration("took", time.Since(start)))
	return nil
}
