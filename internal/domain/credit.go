package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CreditStatusActive = "active"
	CreditStatusClosed = "closed"
)

// CalculationMethod selects the amortization algorithm for a credit.
type CalculationMethod string

const (
	ClassicAnnuity         CalculationMethod = "classic_annuity"
	ClassicDifferentiated  CalculationMethod = "classic_differentiated"
	FloatingAnnuity        CalculationMethod = "floating_annuity"
	FloatingDifferentiated CalculationMethod = "floating_differentiated"
)

// methodAliases maps every textual form accepted on the wire (and found in
// legacy exports) to the canonical variant. Engine code consumes only the
// CalculationMethod value, never raw strings.
var methodAliases = map[string]CalculationMethod{
	"classic_annuity":         ClassicAnnuity,
	"classic-annuity":         ClassicAnnuity,
	"annuity":                 ClassicAnnuity,
	"classic_differentiated":  ClassicDifferentiated,
	"classic-differentiated":  ClassicDifferentiated,
	"differentiated":          ClassicDifferentiated,
	"floating_annuity":        FloatingAnnuity,
	"floating-annuity":        FloatingAnnuity,
	"floating_differentiated": FloatingDifferentiated,
	"floating-differentiated": FloatingDifferentiated,
}

// ParseCalculationMethod converts a textual method alias into its variant.
func ParseCalculationMethod(s string) (CalculationMethod, error) {
	m, ok := methodAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown calculation method %q", s)
	}
	return m, nil
}

// IsFloating reports whether the method consults the rate timeline
// continuously rather than fixing the rate at the start date.
func (m CalculationMethod) IsFloating() bool {
	return m == FloatingAnnuity || m == FloatingDifferentiated
}

// IsAnnuity reports whether the method levels the total payment.
func (m CalculationMethod) IsAnnuity() bool {
	return m == ClassicAnnuity || m == FloatingAnnuity
}

// Credit represents a credit contract. It is immutable for the duration of
// one schedule generation call.
type Credit struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	CreditID        string            `json:"credit_id" db:"credit_id"`
	BankID          string            `json:"bank_id" db:"bank_id"`
	Principal       decimal.Decimal   `json:"principal" db:"principal"`
	TermMonths      int               `json:"term_months" db:"term_months"`
	StartDate       time.Time         `json:"start_date" db:"start_date"`
	Method          CalculationMethod `json:"method" db:"method"`
	DefermentMonths int               `json:"deferment_months" db:"deferment_months"`
	PaymentDay      int               `json:"payment_day" db:"payment_day"`
	Status          string            `json:"status" db:"status"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateCreditRequest struct {
	CreditID        string          `json:"credit_id" validate:"required"`
	BankID          string          `json:"bank_id" validate:"required"`
	Principal       decimal.Decimal `json:"principal" validate:"required"`
	TermMonths      int             `json:"term_months" validate:"required,gt=0"`
	StartDate       time.Time       `json:"start_date" validate:"required"`
	Method          string          `json:"method" validate:"required"`
	DefermentMonths int             `json:"deferment_months" validate:"gte=0"`
	PaymentDay      int             `json:"payment_day" validate:"required,min=1,max=31"`
	// AnnualRate is stored as a fraction (0.12 for 12%); the service scales
	// it by 100 before the engine sees it.
	AnnualRate decimal.Decimal `json:"annual_rate" validate:"required"`
}

type CreateCreditResponse struct {
	Credit   *Credit         `json:"credit"`
	Schedule []*ScheduleItem `json:"schedule"`
	Totals   ScheduleTotals  `json:"totals"`
}

type AddRateRequest struct {
	// Rate is a fraction, e.g. 0.15 for 15%.
	Rate          decimal.Decimal `json:"rate" validate:"required"`
	EffectiveDate time.Time       `json:"effective_date" validate:"required"`
}

type AddAdjustmentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	EffectiveDate time.Time       `json:"effective_date" validate:"required"`
	Type          string          `json:"type"`
}

type RecalculateRequest struct {
	FromDate time.Time `json:"from_date" validate:"required"`
}

type OutstandingResponse struct {
	CreditID    string          `json:"credit_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
