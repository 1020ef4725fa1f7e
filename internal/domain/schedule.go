package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ScheduleStatusPending = "pending"
	ScheduleStatusPaid    = "paid"
	ScheduleStatusOverdue = "overdue"
)

// ScheduleItem is one period of a payment schedule. Items are persisted
// keyed by (credit_id, period_number).
type ScheduleItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	CreditID         string          `json:"credit_id" db:"credit_id"`
	PeriodNumber     int             `json:"period_number" db:"period_number"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	PrincipalDue     decimal.Decimal `json:"principal_due" db:"principal_due"`
	InterestDue      decimal.Decimal `json:"interest_due" db:"interest_due"`
	TotalDue         decimal.Decimal `json:"total_due" db:"total_due"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" db:"remaining_balance"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// ScheduleTotals are the aggregate sums over a schedule.
type ScheduleTotals struct {
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalDue       decimal.Decimal `json:"total_due"`
}

type ScheduleResponse struct {
	CreditID string          `json:"credit_id"`
	Schedule []*ScheduleItem `json:"schedule"`
	Totals   ScheduleTotals  `json:"totals"`
}

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

// Payment is a historical payment record against one schedule period.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CreditID      string          `json:"credit_id" db:"credit_id"`
	PeriodNumber  int             `json:"period_number" db:"period_number"`
	Status        string          `json:"status" db:"status"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	PaidAmount    decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	PaidPrincipal decimal.Decimal `json:"paid_principal" db:"paid_principal"`
	PaidAt        time.Time       `json:"paid_at" db:"paid_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
