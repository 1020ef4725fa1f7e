package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/credofin/credit-engine/internal/domain"
)

type creditRepository struct {
	db *sqlx.DB
}

func NewCreditRepository(db *sqlx.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Create(ctx context.Context, credit *domain.Credit) error {
	query := `
		INSERT INTO credits (id, credit_id, bank_id, principal, term_months, start_date, method, deferment_months, payment_day, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		credit.ID,
		credit.CreditID,
		credit.BankID,
		credit.Principal,
		credit.TermMonths,
		credit.StartDate,
		credit.Method,
		credit.DefermentMonths,
		credit.PaymentDay,
		credit.Status,
		credit.CreatedAt,
		credit.UpdatedAt,
	)

	return err
}

func (r *creditRepository) GetByCreditID(ctx context.Context, creditID string) (*domain.Credit, error) {
	query := `
		SELECT id, credit_id, bank_id, principal, term_months, start_date, method, deferment_months, payment_day, status, created_at, updated_at
		FROM credits
		WHERE credit_id = $1
	`

	var credit domain.Credit
	err := r.db.GetContext(ctx, &credit, query, creditID)
	if err != nil {
		return nil, err
	}

	return &credit, nil
}

func (r *creditRepository) Update(ctx context.Context, credit *domain.Credit) error {
	query := `
		UPDATE credits
		SET principal = $2, term_months = $3, start_date = $4, method = $5, deferment_months = $6, payment_day = $7, status = $8, updated_at = $9
		WHERE credit_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		credit.CreditID,
		credit.Principal,
		credit.TermMonths,
		credit.StartDate,
		credit.Method,
		credit.DefermentMonths,
		credit.PaymentDay,
		credit.Status,
		time.Now(),
	)

	return err
}

func (r *creditRepository) ListActive(ctx context.Context) ([]*domain.Credit, error) {
	query := `
		SELECT id, credit_id, bank_id, principal, term_months, start_date, method, deferment_months, payment_day, status, created_at, updated_at
		FROM credits
		WHERE status = 'active'
		ORDER BY credit_id
	`

	var credits []*domain.Credit
	err := r.db.SelectContext(ctx, &credits, query)
	if err != nil {
		return nil, err
	}

	return credits, nil
}

func (r *creditRepository) AddRateEntry(ctx context.Context, creditID string, entry domain.RateEntry) error {
	query := `
		INSERT INTO credit_rates (credit_id, annual_percent, effective_date)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, creditID, entry.AnnualPercent, entry.EffectiveDate)
	return err
}

func (r *creditRepository) GetRates(ctx context.Context, creditID string) (domain.RateTimeline, error) {
	query := `
		SELECT annual_percent, effective_date
		FROM credit_rates
		WHERE credit_id = $1
		ORDER BY effective_date
	`

	var rates domain.RateTimeline
	err := r.db.SelectContext(ctx, &rates, query, creditID)
	if err != nil {
		return nil, err
	}

	return rates, nil
}

func (r *creditRepository) AddAdjustment(ctx context.Context, creditID string, entry domain.AdjustmentEntry) error {
	query := `
		INSERT INTO credit_adjustments (credit_id, amount, effective_date, type)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, creditID, entry.Amount, entry.EffectiveDate, entry.Type)
	return err
}

func (r *creditRepository) GetAdjustments(ctx context.Context, creditID string) (domain.AdjustmentTimeline, error) {
	query := `
		SELECT amount, effective_date, type
		FROM credit_adjustments
		WHERE credit_id = $1
		ORDER BY effective_date
	`

	var adjustments domain.AdjustmentTimeline
	err := r.db.SelectContext(ctx, &adjustments, query, creditID)
	if err != nil {
		return nil, err
	}

	return adjustments, nil
}
