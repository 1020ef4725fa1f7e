package repository

import (
	"context"
	"time"

	"github.com/credofin/credit-engine/internal/domain"
)

// CreditRepository defines the interface for credit data operations
type CreditRepository interface {
	// Create creates a new credit
	Create(ctx context.Context, credit *domain.Credit) error

	// GetByCreditID retrieves a credit by its business key
	GetByCreditID(ctx context.Context, creditID string) (*domain.Credit, error)

	// Update updates a credit
	Update(ctx context.Context, credit *domain.Credit) error

	// ListActive lists all active credits
	ListActive(ctx context.Context) ([]*domain.Credit, error)

	// AddRateEntry appends a rate entry to a credit's timeline
	AddRateEntry(ctx context.Context, creditID string, entry domain.RateEntry) error

	// GetRates retrieves the rate timeline ordered by effective date
	GetRates(ctx context.Context, creditID string) (domain.RateTimeline, error)

	// AddAdjustment appends a principal adjustment
	AddAdjustment(ctx context.Context, creditID string, entry domain.AdjustmentEntry) error

	// GetAdjustments retrieves adjustments ordered by effective date
	GetAdjustments(ctx context.Context, creditID string) (domain.AdjustmentTimeline, error)
}

// ScheduleRepository defines the interface for schedule data operations
type ScheduleRepository interface {
	// Replace atomically swaps the stored schedule for a credit
	Replace(ctx context.Context, creditID string, items []domain.ScheduleItem) error

	// ReplaceFrom swaps only the periods at or after fromPeriod
	ReplaceFrom(ctx context.Context, creditID string, fromPeriod int, items []domain.ScheduleItem) error

	// GetByCreditID retrieves the schedule ordered by period number
	GetByCreditID(ctx context.Context, creditID string) ([]*domain.ScheduleItem, error)

	// MarkPaid flips one schedule item to paid
	MarkPaid(ctx context.Context, creditID string, periodNumber int) error

	// MarkOverdue flips pending items with a due date before asOf to overdue,
	// returning the number of rows touched
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByCreditID retrieves all payments for a credit ordered by period
	GetByCreditID(ctx context.Context, creditID string) ([]domain.Payment, error)
}
