package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/credofin/credit-engine/internal/domain"
)

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) Create(ctx context.Context, credit *domain.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) GetByCreditID(ctx context.Context, creditID string) (*domain.Credit, error) {
	args := m.Called(ctx, creditID)
	if credit := args.Get(0); credit != nil {
		return credit.(*domain.Credit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCreditRepository) Update(ctx context.Context, credit *domain.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) ListActive(ctx context.Context) ([]*domain.Credit, error) {
	args := m.Called(ctx)
	if credits := args.Get(0); credits != nil {
		return credits.([]*domain.Credit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCreditRepository) AddRateEntry(ctx context.Context, creditID string, entry domain.RateEntry) error {
	args := m.Called(ctx, creditID, entry)
	return args.Error(0)
}

func (m *MockCreditRepository) GetRates(ctx context.Context, creditID string) (domain.RateTimeline, error) {
	args := m.Called(ctx, creditID)
	if rates := args.Get(0); rates != nil {
		return rates.(domain.RateTimeline), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCreditRepository) AddAdjustment(ctx context.Context, creditID string, entry domain.AdjustmentEntry) error {
	args := m.Called(ctx, creditID, entry)
	return args.Error(0)
}

func (m *MockCreditRepository) GetAdjustments(ctx context.Context, creditID string) (domain.AdjustmentTimeline, error) {
	args := m.Called(ctx, creditID)
	if adjustments := args.Get(0); adjustments != nil {
		return adjustments.(domain.AdjustmentTimeline), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Replace(ctx context.Context, creditID string, items []domain.ScheduleItem) error {
	args := m.Called(ctx, creditID, items)
	return args.Error(0)
}

func (m *MockScheduleRepository) ReplaceFrom(ctx context.Context, creditID string, fromPeriod int, items []domain.ScheduleItem) error {
	args := m.Called(ctx, creditID, fromPeriod, items)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetByCreditID(ctx context.Context, creditID string) ([]*domain.ScheduleItem, error) {
	args := m.Called(ctx, creditID)
	if items := args.Get(0); items != nil {
		return items.([]*domain.ScheduleItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockScheduleRepository) MarkPaid(ctx context.Context, creditID string, periodNumber int) error {
	args := m.Called(ctx, creditID, periodNumber)
	return args.Error(0)
}

func (m *MockScheduleRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByCreditID(ctx context.Context, creditID string) ([]domain.Payment, error) {
	args := m.Called(ctx, creditID)
	if payments := args.Get(0); payments != nil {
		return payments.([]domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}
