package sweeper

//go:generate go run go.uber.org/mock/mockgen -source=./sweeper.go -destination=./mocks/sweeper_mock.go -package=mocks

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tarmac/config"
	"tarmac/infras/otel"
	bookingService "tarmac/internal/domains/booking/service"
	"tarmac/shared/constant"
	"tarmac/shared/timezone"
)

type Status struct {
	Running     bool       `json:"running"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	LastExpired int        `json:"last_expired"`
	LastError   string     `json:"last_error,omitempty"`
}

// Sweeper periodically expires overdue booking holds. The expiry pass itself
// is idempotent and guarded, so overlapping runs (or a second instance) only
// cost wasted work.
type Sweeper interface {
	Start()
	Stop()
	Status() Status
	Healthy() bool
}

type sweeperImpl struct {
	booking bookingService.Booking
	cfg     *config.Config
	otel    otel.Otel

	mu      sync.Mutex
	status  Status
	cancel  context.CancelFunc
	stopped chan struct{}
}

func New(booking bookingService.Booking, cfg *config.Config, otel otel.Otel) Sweeper {
	return &sweeperImpl{
		booking: booking,
		cfg:     cfg,
		otel:    otel,
	}
}

func (s *sweeperImpl) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stopped = make(chan struct{})
	s.status.Running = true

	interval := time.Duration(s.cfg.Booking.SweepIntervalSeconds) * time.Second

	go s.run(ctx, interval)

	log.Info().Dur("interval", interval).Msg("expiry sweeper started")
}

func (s *sweeperImpl) Stop() {
	s.mu.Lock()

	if !s.status.Running {
		s.mu.Unlock()

		return
	}

	s.status.Running = false
	s.cancel()
	stopped := s.stopped

	s.mu.Unlock()

	<-stopped

	log.Info().Msg("expiry sweeper stopped")
}

func (s *sweeperImpl) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Healthy reports whether the sweeper is running and has completed a pass
// within twice its interval. A nil LastRunAt while running means the first
// pass has not finished yet, which still counts as healthy.
func (s *sweeperImpl) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.status.Running {
		return false
	}

	if s.status.LastRunAt == nil {
		return true
	}

	staleAfter := 2 * time.Duration(s.cfg.Booking.SweepIntervalSeconds) * time.Second

	return timezone.Now().Sub(*s.status.LastRunAt) < staleAfter
}

func (s *sweeperImpl) run(ctx context.Context, interval time.Duration) {
	defer close(s.stopped)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First pass right away so a restart catches up on holds that lapsed
	// while the process was down.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sweeperImpl) sweep(ctx context.Context) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSweeperScopeName, constant.OtelSweeperScopeName+".Sweep")
	defer scope.End()

	expired, err := s.booking.ExpireOverdueHolds(ctx)

	now := timezone.Now()

	s.mu.Lock()
	s.status.LastRunAt = &now
	s.status.LastExpired = expired
	s.status.LastError = constant.Empty

	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("expiry sweep failed")

		return
	}

	if expired > 0 {
		log.Info().Int("expired", expired).Msg("expired overdue booking holds")
	}
}
