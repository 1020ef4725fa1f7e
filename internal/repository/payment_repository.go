package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/credofin/credit-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO credit_payments (id, credit_id, period_number, status, due_date, paid_amount, paid_principal, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.CreditID,
		payment.PeriodNumber,
		payment.Status,
		payment.DueDate,
		payment.PaidAmount,
		payment.PaidPrincipal,
		payment.PaidAt,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetByCreditID(ctx context.Context, creditID string) ([]domain.Payment, error) {
	query := `
		SELECT id, credit_id, period_number, status, due_date, paid_amount, paid_principal, paid_at, created_at
		FROM credit_payments
		WHERE credit_id = $1
		ORDER BY period_number
	`

	var payments []domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, creditID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
