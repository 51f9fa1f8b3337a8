package services

import (
	"context"
	"time"

	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Background maintenance: refresh token purge + stale sessions
// ============================================================

// CronService runs scheduled housekeeping jobs
type CronService struct {
	tokenRepo   repositories.RefreshTokenRepository
	sessionRepo repositories.SessionRepository
	schedule    string
	staleAfter  time.Duration
	cron        *cron.Cron
	now         func() time.Time
}

// NewCronService creates the scheduler. Sessions still open after staleAfter
// are closed by the cleanup job.
func NewCronService(
	tokenRepo repositories.RefreshTokenRepository,
	sessionRepo repositories.SessionRepository,
	schedule string,
	staleAfter time.Duration,
) *CronService {
	return &CronService{
		tokenRepo:   tokenRepo,
		sessionRepo: sessionRepo,
		schedule:    schedule,
		staleAfter:  staleAfter,
		cron:        cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		now:         time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.cleanup); err != nil {
		return err
	}
	s.cron.Start()
	logger.Successf("CronService started (cleanup: %s)", s.schedule)
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("CronService stopped")
}

func (s *CronService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	s.RunCleanup(ctx)
}

// RunCleanup purges expired refresh tokens and closes stale sessions
func (s *CronService) RunCleanup(ctx context.Context) {
	purged, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		logger.Error("Refresh token purge failed", err)
	} else if purged > 0 {
		logger.Infof("Purged %d expired refresh tokens", purged)
	}

	at := s.now()
	closed, err := s.sessionRepo.CloseStale(ctx, at.Add(-s.staleAfter), at)
	if err != nil {
		logger.Error("Closing stale sessions failed", err)
	} else if closed > 0 {
		logger.Infof("Closed %d stale sessions", closed)
	}
}
