package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// PaymentSweeper expires checkout payments that never completed.
type PaymentSweeper struct {
	paymentRepo repository.PaymentRepository
	ttl         time.Duration
	spec        string
	cron        *cron.Cron
	now         func() time.Time
}

func NewPaymentSweeper(paymentRepo repository.PaymentRepository, cfg *config.Config) *PaymentSweeper {
	ttl := cfg.Payments.PendingTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PaymentSweeper{
		paymentRepo: paymentRepo,
		ttl:         ttl,
		spec:        cfg.Payments.SweepSpec,
		cron:        cron.New(),
		now:         time.Now,
	}
}

// Sweep marks pending payments older than the TTL as expired.
func (s *PaymentSweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.ttl)
	n, err := s.paymentRepo.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("Sweep: failed to expire pending payments")
		return 0, fmt.Errorf("%w: expire pending payments", ErrPersistence)
	}
	if n > 0 {
		log.Info().Int64("expired", n).Time("cutoff", cutoff).Msg("Expired stale pending payments")
	}
	return n, nil
}

// Start schedules the sweep and ties the scheduler to the application lifecycle.
func (s *PaymentSweeper) Start(lc fx.Lifecycle) error {
	if s.spec == "" {
		log.Info().Msg("Payment sweeper disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = s.Sweep(ctx)
	}); err != nil {
		return fmt.Errorf("invalid PAYMENT_SWEEP_SPEC %q: %w", s.spec, err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.cron.Start()
			log.Info().Str("spec", s.spec).Dur("ttl", s.ttl).Msg("Payment sweeper started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := s.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
