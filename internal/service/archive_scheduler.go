package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eboard-api/internal/models"
)

type expiredArchiver interface {
	ArchiveExpiredBefore(ctx context.Context, cutoff models.Date) (int64, error)
}

type sweepRecorder interface {
	RecordSweep(archived int64, duration time.Duration, err error)
}

// ArchiveSchedulerConfig drives the expired-notice sweep.
type ArchiveSchedulerConfig struct {
	Interval   time.Duration
	Timeout    time.Duration
	RunOnStart bool
}

// ArchiveScheduler archives notices whose expiry date has passed, once per
// interval. A failed cycle is logged and the next tick runs normally.
type ArchiveScheduler struct {
	store   expiredArchiver
	stats   statsInvalidator
	metrics sweepRecorder
	logger  *zap.Logger
	cfg     ArchiveSchedulerConfig
	now     func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewArchiveScheduler constructs the scheduler. stats and metrics may be nil.
func NewArchiveScheduler(store expiredArchiver, stats statsInvalidator, metrics sweepRecorder, cfg ArchiveSchedulerConfig, logger *zap.Logger) *ArchiveScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &ArchiveScheduler{store: store, stats: stats, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// Start launches the sweep loop. It returns immediately; calling it again
// while running is a no-op.
func (s *ArchiveScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(loopCtx, s.done)
	s.logger.Info("archive sweep scheduled", zap.Duration("interval", s.cfg.Interval), zap.Bool("run_on_start", s.cfg.RunOnStart))
}

// Stop cancels the loop and waits for an in-flight cycle to finish.
func (s *ArchiveScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *ArchiveScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	if s.cfg.RunOnStart {
		_, _ = s.RunOnce(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("archive sweep stopped")
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

// RunOnce archives every active notice that expired before today. A panic
// inside the cycle is reported as a failed sweep.
func (s *ArchiveScheduler) RunOnce(ctx context.Context) (archived int64, err error) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	today := models.NewDate(s.now())
	defer func() {
		if r := recover(); r != nil {
			archived, err = 0, fmt.Errorf("archive sweep panic: %v", r)
			s.logger.Error("archive sweep panicked", zap.String("cutoff", today.String()), zap.Any("panic", r), zap.Stack("stack"))
			if s.metrics != nil {
				s.metrics.RecordSweep(0, time.Since(start), err)
			}
		}
	}()

	archived, err = s.store.ArchiveExpiredBefore(cycleCtx, today)
	if s.metrics != nil {
		s.metrics.RecordSweep(archived, time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("archive sweep failed", zap.String("cutoff", today.String()), zap.Error(err))
		return 0, err
	}

	if archived > 0 {
		s.logger.Info("archived expired notices", zap.Int64("count", archived), zap.String("cutoff", today.String()))
		if s.stats != nil {
			s.stats.Invalidate(ctx)
		}
	} else {
		s.logger.Debug("archive sweep found nothing to archive", zap.String("cutoff", today.String()))
	}
	return archived, nil
}
