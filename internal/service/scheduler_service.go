package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/credofin/credit-engine/internal/repository"
)

// SchedulerService runs the periodic maintenance jobs. It is an explicitly
// constructed service with injected dependencies; cron wiring lives in the
// scheduler entry point.
type SchedulerService struct {
	creditRepo   repository.CreditRepository
	scheduleRepo repository.ScheduleRepository
	paymentRepo  repository.PaymentRepository
	credits      *CreditService
	logger       *zap.Logger
}

func NewSchedulerService(
	creditRepo repository.CreditRepository,
	scheduleRepo repository.ScheduleRepository,
	paymentRepo repository.PaymentRepository,
	credits *CreditService,
	logger *zap.Logger,
) *SchedulerService {
	return &SchedulerService{
		creditRepo:   creditRepo,
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
		credits:      credits,
		logger:       logger,
	}
}

// MarkOverdue flips pending schedule items whose due date has passed.
func (s *SchedulerService) MarkOverdue(ctx context.Context, asOf time.Time) error {
	touched, err := s.scheduleRepo.MarkOverdue(ctx, asOf)
	if err != nil {
		s.logger.Error("overdue marking failed", zap.Error(err))
		return err
	}

	s.logger.Info("overdue marking complete",
		zap.Time("as_of", asOf),
		zap.Int64("items_marked", touched),
	)
	return nil
}

// RunCheckpointRecalculations recomputes the unpaid remainder of every
// active credit's schedule against its current paid history. A failure on
// one credit is logged and does not stop the sweep.
func (s *SchedulerService) RunCheckpointRecalculations(ctx context.Context, asOf time.Time) error {
	credits, err := s.creditRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("listing active credits failed", zap.Error(err))
		return err
	}

	recalculated := 0
	for _, credit := range credits {
		payments, err := s.paymentRepo.GetByCreditID(ctx, credit.CreditID)
		if err != nil {
			s.logger.Warn("loading payments failed",
				zap.String("credit_id", credit.CreditID), zap.Error(err))
			continue
		}
		// Credits without settled history keep their original schedule.
		if countPaidBefore(payments, asOf) == 0 {
			continue
		}

		if _, err := s.credits.RecalculateSchedule(ctx, credit.CreditID, asOf); err != nil {
			s.logger.Warn("checkpoint recalculation failed",
				zap.String("credit_id", credit.CreditID), zap.Error(err))
			continue
		}
		recalculated++
	}

	s.logger.Info("checkpoint recalculation sweep complete",
		zap.Time("as_of", asOf),
		zap.Int("credits_total", len(credits)),
		zap.Int("credits_recalculated", recalculated),
	)
	return nil
}
