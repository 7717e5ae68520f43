package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oskaros/reminder-engine/internal/domain"
)

type ServiceConfig struct {
	Interval  time.Duration
	Tolerance time.Duration
	// Lookback is how far behind now an un-notified instant stays eligible
	// for dispatch. It bounds the retry budget: with ticks every Interval,
	// a failing send gets roughly Lookback/Interval attempts before
	// housekeeping retires it.
	Lookback time.Duration
}

// Service runs the scan→dispatch pipeline on a fixed interval. Ticks run
// serially on one goroutine, so a slow pass delays the next tick instead of
// overlapping it.
type Service struct {
	scanner    *Scanner
	dispatcher *Dispatcher
	repo       domain.ReminderRepository
	cfg        ServiceConfig
}

func NewService(repo domain.ReminderRepository, scanner *Scanner, dispatcher *Dispatcher, cfg ServiceConfig) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 30 * time.Second
	}
	if cfg.Lookback <= 0 {
		// Two extra ticks of slack, so the default miss threshold of three
		// failed attempts is actually reachable.
		cfg.Lookback = 2*cfg.Interval + cfg.Tolerance
	}

	return &Service{
		scanner:    scanner,
		dispatcher: dispatcher,
		repo:       repo,
		cfg:        cfg,
	}
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	slog.Info("scheduler started",
		"interval", s.cfg.Interval,
		"tolerance", s.cfg.Tolerance,
		"lookback", s.cfg.Lookback,
	)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")

			return
		case <-ticker.C:
			s.Tick(ctx, time.Now().UTC())
		}
	}
}

// Tick runs one complete scan→dispatch→housekeeping pass.
func (s *Service) Tick(ctx context.Context, now time.Time) {
	due, err := s.scanner.Scan(ctx, now)
	if err != nil {
		slog.Error("scan pass failed",
			"error", err,
		)

		return
	}

	if len(due) > 0 {
		s.dispatcher.Dispatch(ctx, due)
	}

	s.housekeep(ctx, now)
}

// housekeep retires pending reminders whose time has fully left the scan
// look-back: notified ones become completed, un-notified ones missed.
// Retiring earlier would race the retry path, which re-offers un-notified
// instants for as long as they stay inside the look-back.
func (s *Service) housekeep(ctx context.Context, now time.Time) {
	past, err := s.repo.FindPendingPast(ctx, now.Add(-s.cfg.Lookback))
	if err != nil {
		slog.Error("housekeeping query failed",
			"error", err,
		)

		return
	}

	for _, reminder := range past {
		next := domain.StatusCompleted
		if !reminder.IsNotified() {
			next = domain.StatusMissed
		}

		if err := s.repo.UpdateStatus(ctx, reminder.ID(), next); err != nil {
			if errors.Is(err, domain.ErrReminderNotFound) {
				continue
			}

			slog.Error("housekeeping status update failed",
				"reminder_id", reminder.ID().String(),
				"error", err,
			)

			continue
		}

		slog.Debug("reminder retired",
			"reminder_id", reminder.ID().String(),
			"status", string(next),
		)
	}
}
