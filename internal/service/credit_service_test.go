package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/credofin/credit-engine/internal/config"
	"github.com/credofin/credit-engine/internal/domain"
	pkgerrors "github.com/credofin/credit-engine/pkg/errors"
	"github.com/credofin/credit-engine/tests/mocks"
)

func newTestService(creditRepo *mocks.MockCreditRepository, scheduleRepo *mocks.MockScheduleRepository, paymentRepo *mocks.MockPaymentRepository) *CreditService {
	return &CreditService{
		creditRepo:   creditRepo,
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
		// Nothing listens here; cache calls fail soft and the service falls
		// through to the repositories.
		redis:  redis.NewClient(&redis.Options{Addr: "localhost:1"}),
		config: &config.Config{Cache: config.CacheConfig{ScheduleTTL: "1h"}},
		logger: zap.NewNop(),
	}
}

func TestCreateCredit_Success(t *testing.T) {
	creditRepo := &mocks.MockCreditRepository{}
	scheduleRepo := &mocks.MockScheduleRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	svc := newTestService(creditRepo, scheduleRepo, paymentRepo)

	request := &domain.CreateCreditRequest{
		CreditID:   "CR-7001",
		BankID:     "BANK-1",
		Principal:  decimal.NewFromInt(120000),
		TermMonths: 12,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Method:     "annuity",
		PaymentDay: 1,
		AnnualRate: decimal.NewFromFloat(0.12),
	}

	creditRepo.On("GetByCreditID", mock.Anything, "CR-7001").Return(nil, sql.ErrNoRows)
	creditRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Credit) bool {
		return c.CreditID == "CR-7001" && c.Method == domain.ClassicAnnuity
	})).Return(nil)
	// The stored fraction 0.12 must reach the timeline as 12 percent.
	creditRepo.On("AddRateEntry", mock.Anything, "CR-7001", mock.MatchedBy(func(e domain.RateEntry) bool {
		return e.AnnualPercent.Equal(decimal.NewFromInt(12))
	})).Return(nil)
	scheduleRepo.On("Replace", mock.Anything, "CR-7001", mock.MatchedBy(func(items []domain.ScheduleItem) bool {
		return len(items) == 12
	})).Return(nil)

	result, err := svc.CreateCredit(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, "CR-7001", result.Credit.CreditID)
	assert.Len(t, result.Schedule, 12)
	assert.Equal(t, "9461.85", result.Schedule[0].PrincipalDue.StringFixed(2))
	assert.Equal(t, "120000.00", result.Totals.TotalPrincipal.StringFixed(2))

	creditRepo.AssertExpectations(t)
	scheduleRepo.AssertExpectations(t)
}

func TestCreateCredit_AlreadyExists(t *testing.T) {
	creditRepo := &mocks.MockCreditRepository{}
	svc := newTestService(creditRepo, &mocks.MockScheduleRepository{}, &mocks.MockPaymentRepository{})

	creditRepo.On("GetByCreditID", mock.Anything, "CR-7002").Return(&domain.Credit{CreditID: "CR-7002"}, nil)

	_, err := svc.CreateCredit(context.Background(), &domain.CreateCreditRequest{
		CreditID:   "CR-7002",
		Principal:  decimal.NewFromInt(1000),
		TermMonths: 6,
		Method:     "annuity",
		PaymentDay: 1,
		AnnualRate: decimal.NewFromFloat(0.10),
	})
	assert.ErrorIs(t, err, pkgerrors.ErrCreditAlreadyExists)
}

func TestCreateCredit_EngineRejectionBeforePersistence(t *testing.T) {
	creditRepo := &mocks.MockCreditRepository{}
	scheduleRepo := &mocks.MockScheduleRepository{}
	svc := newTestService(creditRepo, scheduleRepo, &mocks.MockPaymentRepository{})

	creditRepo.On("GetByCreditID", mock.Anything, "CR-7003").Return(nil, sql.ErrNoRows)

	_, err := svc.CreateCredit(context.Background(), &domain.CreateCreditRequest{
		CreditID:   "CR-7003",
		Principal:  decimal.NewFromInt(120000),
		TermMonths: 12,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Method:     "annuity",
		PaymentDay: 99,
		AnnualRate: decimal.NewFromFloat(0.12),
	})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidPaymentDay)

	// Nothing was written.
	creditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	scheduleRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecalculateSchedule_OffsetsPaidPeriods(t *testing.T) {
	creditRepo := &mocks.MockCreditRepository{}
	scheduleRepo := &mocks.MockScheduleRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	svc := newTestService(creditRepo, scheduleRepo, paymentRepo)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	credit := &domain.Credit{
		CreditID:   "CR-7004",
		Principal:  decimal.NewFromInt(120000),
		TermMonths: 12,
		StartDate:  start,
		Method:     domain.ClassicDifferentiated,
		PaymentDay: 1,
	}

	paid := decimal.NewFromInt(10000)
	payments := []domain.Payment{
		{PeriodNumber: 1, Status: domain.PaymentStatusPaid, DueDate: start.AddDate(0, 1, 0), PaidPrincipal: paid},
		{PeriodNumber: 2, Status: domain.PaymentStatusPaid, DueDate: start.AddDate(0, 2, 0), PaidPrincipal: paid},
		{PeriodNumber: 3, Status: domain.PaymentStatusPaid, DueDate: start.AddDate(0, 3, 0), PaidPrincipal: paid},
	}

	creditRepo.On("GetByCreditID", mock.Anything, "CR-7004").Return(credit, nil)
	creditRepo.On("GetRates", mock.Anything, "CR-7004").Return(domain.RateTimeline{
		{AnnualPercent: decimal.NewFromInt(12), EffectiveDate: start},
	}, nil)
	creditRepo.On("GetAdjustments", mock.Anything, "CR-7004").Return(domain.AdjustmentTimeline{}, nil)
	paymentRepo.On("GetByCreditID", mock.Anything, "CR-7004").Return(payments, nil)
	scheduleRepo.On("ReplaceFrom", mock.Anything, "CR-7004", 4, mock.MatchedBy(func(items []domain.ScheduleItem) bool {
		return len(items) == 9 && items[0].PeriodNumber == 4
	})).Return(nil)

	items, err := svc.RecalculateSchedule(context.Background(), "CR-7004", start.AddDate(0, 4, 0))
	require.NoError(t, err)

	require.Len(t, items, 9)
	assert.Equal(t, 4, items[0].PeriodNumber)
	assert.Equal(t, 12, items[8].PeriodNumber)
	assert.Equal(t, "10000.00", items[0].PrincipalDue.StringFixed(2))

	scheduleRepo.AssertExpectations(t)
}

func TestGetOutstanding_SumsUnpaidPeriods(t *testing.T) {
	scheduleRepo := &mocks.MockScheduleRepository{}
	svc := newTestService(&mocks.MockCreditRepository{}, scheduleRepo, &mocks.MockPaymentRepository{})

	scheduleRepo.On("GetByCreditID", mock.Anything, "CR-7005").Return([]*domain.ScheduleItem{
		{PeriodNumber: 1, TotalDue: decimal.NewFromInt(1100), Status: domain.ScheduleStatusPaid},
		{PeriodNumber: 2, TotalDue: decimal.NewFromInt(1100), Status: domain.ScheduleStatusOverdue},
		{PeriodNumber: 3, TotalDue: decimal.NewFromInt(1100), Status: domain.ScheduleStatusPending},
	}, nil)

	outstanding, err := svc.GetOutstanding(context.Background(), "CR-7005")
	require.NoError(t, err)
	assert.Equal(t, "2200.00", outstanding.StringFixed(2))
}
