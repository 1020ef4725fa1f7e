package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/credofin/credit-engine/internal/config"
	"github.com/credofin/credit-engine/internal/domain"
	"github.com/credofin/credit-engine/internal/engine"
	"github.com/credofin/credit-engine/internal/repository"
	customError "github.com/credofin/credit-engine/pkg/errors"
)

var percentScale = decimal.NewFromInt(100)

// CreditService orchestrates the schedule engine against the persistence
// layer. The engine itself is pure; this layer owns data loading, rate
// normalization, persistence, caching and logging.
type CreditService struct {
	creditRepo   repository.CreditRepository
	scheduleRepo repository.ScheduleRepository
	paymentRepo  repository.PaymentRepository
	redis        *redis.Client
	config       *config.Config
	logger       *zap.Logger
}

func NewCreditService(
	creditRepo repository.CreditRepository,
	scheduleRepo repository.ScheduleRepository,
	paymentRepo repository.PaymentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *CreditService {
	return &CreditService{
		creditRepo:   creditRepo,
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
		redis:        redisClient,
		config:       cfg,
		logger:       logger,
	}
}

// CreateCredit creates a credit, generates its full schedule and persists
// both. The stored rate arrives as a fraction (0.12 for 12%) and is scaled
// to percent units here, before the engine ever sees it.
func (s *CreditService) CreateCredit(ctx context.Context, request *domain.CreateCreditRequest) (*domain.CreateCreditResponse, error) {
	existing, err := s.creditRepo.GetByCreditID(ctx, request.CreditID)
	if err == nil && existing != nil {
		return nil, customError.WrapCreditAlreadyExists(request.CreditID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	method, err := domain.ParseCalculationMethod(request.Method)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	credit := &domain.Credit{
		ID:              uuid.New(),
		CreditID:        request.CreditID,
		BankID:          request.BankID,
		Principal:       request.Principal,
		TermMonths:      request.TermMonths,
		StartDate:       request.StartDate,
		Method:          method,
		DefermentMonths: request.DefermentMonths,
		PaymentDay:      request.PaymentDay,
		Status:          domain.CreditStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	rates := domain.RateTimeline{
		{AnnualPercent: request.AnnualRate.Mul(percentScale), EffectiveDate: request.StartDate},
	}

	items, err := engine.Generate(credit, rates, nil)
	if err != nil {
		return nil, err
	}
	s.stampItems(items, now)

	if err = s.creditRepo.Create(ctx, credit); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if err = s.creditRepo.AddRateEntry(ctx, credit.CreditID, rates[0]); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if err = s.scheduleRepo.Replace(ctx, credit.CreditID, items); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateScheduleCache(ctx, credit.CreditID)
	s.logger.Info("credit created",
		zap.String("credit_id", credit.CreditID),
		zap.String("method", string(method)),
		zap.Int("periods", len(items)),
	)

	return &domain.CreateCreditResponse{
		Credit:   credit,
		Schedule: itemPointers(items),
		Totals:   engine.Totals(items),
	}, nil
}

// GetSchedule returns the stored schedule with aggregate totals, served
// from the redis cache when warm.
func (s *CreditService) GetSchedule(ctx context.Context, creditID string) (*domain.ScheduleResponse, error) {
	cacheKey := scheduleCacheKey(creditID)
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var response domain.ScheduleResponse
		if err := json.Unmarshal([]byte(cached), &response); err == nil {
			return &response, nil
		}
	}

	items, err := s.scheduleRepo.GetByCreditID(ctx, creditID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if len(items) == 0 {
		return nil, customError.WrapCreditNotFound(creditID)
	}

	totals := domain.ScheduleTotals{}
	for _, item := range items {
		totals.TotalPrincipal = totals.TotalPrincipal.Add(item.PrincipalDue)
		totals.TotalInterest = totals.TotalInterest.Add(item.InterestDue)
		totals.TotalDue = totals.TotalDue.Add(item.TotalDue)
	}

	response := &domain.ScheduleResponse{
		CreditID: creditID,
		Schedule: items,
		Totals:   totals,
	}

	if payload, err := json.Marshal(response); err == nil {
		s.redis.Set(ctx, cacheKey, payload, s.config.GetScheduleCacheTTL())
	}

	return response, nil
}

// AddRateEntry appends a rate change to a credit's timeline and regenerates
// the unpaid remainder of its schedule.
func (s *CreditService) AddRateEntry(ctx context.Context, creditID string, request *domain.AddRateRequest) ([]domain.ScheduleItem, error) {
	credit, err := s.loadCredit(ctx, creditID)
	if err != nil {
		return nil, err
	}

	entry := domain.RateEntry{
		AnnualPercent: request.Rate.Mul(percentScale),
		EffectiveDate: request.EffectiveDate,
	}
	if err = s.creditRepo.AddRateEntry(ctx, creditID, entry); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.regenerate(ctx, credit)
}

// AddAdjustment appends a principal adjustment and regenerates the unpaid
// remainder of the schedule.
func (s *CreditService) AddAdjustment(ctx context.Context, creditID string, request *domain.AddAdjustmentRequest) ([]domain.ScheduleItem, error) {
	credit, err := s.loadCredit(ctx, creditID)
	if err != nil {
		return nil, err
	}

	entry := domain.AdjustmentEntry{
		Amount:        request.Amount,
		EffectiveDate: request.EffectiveDate,
		Type:          request.Type,
	}
	if err = s.creditRepo.AddAdjustment(ctx, creditID, entry); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.regenerate(ctx, credit)
}

// RecalculateSchedule performs a checkpoint recomputation: the paid history
// before fromDate is settled, and the remaining periods are regenerated and
// stored after the paid ones.
func (s *CreditService) RecalculateSchedule(ctx context.Context, creditID string, fromDate time.Time) ([]domain.ScheduleItem, error) {
	credit, err := s.loadCredit(ctx, creditID)
	if err != nil {
		return nil, err
	}

	rates, adjustments, payments, err := s.loadTimelines(ctx, creditID)
	if err != nil {
		return nil, err
	}

	items, err := engine.RecalculateFrom(credit, rates, adjustments, fromDate, payments)
	if err != nil {
		return nil, err
	}

	paidCount := countPaidBefore(payments, fromDate)
	offsetPeriods(items, paidCount)
	s.stampItems(items, time.Now())

	if err = s.scheduleRepo.ReplaceFrom(ctx, creditID, paidCount+1, items); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateScheduleCache(ctx, creditID)
	s.logger.Info("schedule recalculated",
		zap.String("credit_id", creditID),
		zap.Time("from_date", fromDate),
		zap.Int("paid_periods", paidCount),
		zap.Int("remaining_periods", len(items)),
	)

	return items, nil
}

// RecordPayment marks a schedule period as paid and stores the payment
// record that later feeds checkpoint recalculations.
func (s *CreditService) RecordPayment(ctx context.Context, creditID string, periodNumber int, amount decimal.Decimal) (*domain.Payment, error) {
	items, err := s.scheduleRepo.GetByCreditID(ctx, creditID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	var target *domain.ScheduleItem
	for _, item := range items {
		if item.PeriodNumber == periodNumber {
			target = item
			break
		}
	}
	if target == nil {
		return nil, customError.WrapCreditNotFound(creditID)
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:            uuid.New(),
		CreditID:      creditID,
		PeriodNumber:  periodNumber,
		Status:        domain.PaymentStatusPaid,
		DueDate:       target.DueDate,
		PaidAmount:    amount,
		PaidPrincipal: target.PrincipalDue,
		PaidAt:        now,
		CreatedAt:     now,
	}

	if err = s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if err = s.scheduleRepo.MarkPaid(ctx, creditID, periodNumber); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateScheduleCache(ctx, creditID)
	return payment, nil
}

// GetOutstanding sums principal and interest still due on unpaid periods.
func (s *CreditService) GetOutstanding(ctx context.Context, creditID string) (decimal.Decimal, error) {
	items, err := s.scheduleRepo.GetByCreditID(ctx, creditID)
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}
	if len(items) == 0 {
		return decimal.Zero, customError.WrapCreditNotFound(creditID)
	}

	outstanding := decimal.Zero
	for _, item := range items {
		if item.Status != domain.ScheduleStatusPaid {
			outstanding = outstanding.Add(item.TotalDue)
		}
	}

	return outstanding, nil
}

// regenerate rebuilds the schedule after a term edit. With no paid history
// the whole schedule is regenerated; otherwise the paid periods stay fixed
// and only the remainder is recomputed, from the day after the last paid
// due date.
func (s *CreditService) regenerate(ctx context.Context, credit *domain.Credit) ([]domain.ScheduleItem, error) {
	rates, adjustments, payments, err := s.loadTimelines(ctx, credit.CreditID)
	if err != nil {
		return nil, err
	}

	lastPaidDue, paidCount := lastPaid(payments)

	var items []domain.ScheduleItem
	if paidCount == 0 {
		items, err = engine.Generate(credit, rates, adjustments)
		if err != nil {
			return nil, err
		}
		s.stampItems(items, time.Now())
		err = s.scheduleRepo.Replace(ctx, credit.CreditID, items)
	} else {
		fromDate := lastPaidDue.AddDate(0, 0, 1)
		items, err = engine.RecalculateFrom(credit, rates, adjustments, fromDate, payments)
		if err != nil {
			return nil, err
		}
		offsetPeriods(items, paidCount)
		s.stampItems(items, time.Now())
		err = s.scheduleRepo.ReplaceFrom(ctx, credit.CreditID, paidCount+1, items)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateScheduleCache(ctx, credit.CreditID)
	return items, nil
}

func (s *CreditService) loadCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	credit, err := s.creditRepo.GetByCreditID(ctx, creditID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCreditNotFound(creditID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return credit, nil
}

func (s *CreditService) loadTimelines(ctx context.Context, creditID string) (domain.RateTimeline, domain.AdjustmentTimeline, []domain.Payment, error) {
	rates, err := s.creditRepo.GetRates(ctx, creditID)
	if err != nil {
		return nil, nil, nil, customError.WrapDatabaseError(err)
	}
	adjustments, err := s.creditRepo.GetAdjustments(ctx, creditID)
	if err != nil {
		return nil, nil, nil, customError.WrapDatabaseError(err)
	}
	payments, err := s.paymentRepo.GetByCreditID(ctx, creditID)
	if err != nil {
		return nil, nil, nil, customError.WrapDatabaseError(err)
	}
	return rates, adjustments, payments, nil
}

func (s *CreditService) stampItems(items []domain.ScheduleItem, now time.Time) {
	for i := range items {
		items[i].ID = uuid.New()
		items[i].CreatedAt = now
	}
}

func (s *CreditService) invalidateScheduleCache(ctx context.Context, creditID string) {
	if err := s.redis.Del(ctx, scheduleCacheKey(creditID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("schedule cache invalidation failed",
			zap.String("credit_id", creditID), zap.Error(err))
	}
}

func scheduleCacheKey(creditID string) string {
	return fmt.Sprintf("schedule:%s", creditID)
}

func countPaidBefore(payments []domain.Payment, fromDate time.Time) int {
	count := 0
	for _, p := range payments {
		if p.Status == domain.PaymentStatusPaid && p.DueDate.Before(fromDate) {
			count++
		}
	}
	return count
}

func lastPaid(payments []domain.Payment) (time.Time, int) {
	var last time.Time
	count := 0
	for _, p := range payments {
		if p.Status == domain.PaymentStatusPaid {
			count++
			if p.DueDate.After(last) {
				last = p.DueDate
			}
		}
	}
	return last, count
}

// offsetPeriods shifts freshly numbered recalculation output past the paid
// periods so the (credit_id, period_number) key never collides.
func offsetPeriods(items []domain.ScheduleItem, offset int) {
	for i := range items {
		items[i].PeriodNumber += offset
	}
}

func itemPointers(items []domain.ScheduleItem) []*domain.ScheduleItem {
	out := make([]*domain.ScheduleItem, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
