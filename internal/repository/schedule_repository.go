package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/credofin/credit-engine/internal/domain"
)

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const insertScheduleItem = `
	INSERT INTO credit_schedule (id, credit_id, period_number, due_date, principal_due, interest_due, total_due, remaining_balance, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func (r *scheduleRepository) Replace(ctx context.Context, creditID string, items []domain.ScheduleItem) error {
	return r.replaceFrom(ctx, creditID, 1, items)
}

func (r *scheduleRepository) ReplaceFrom(ctx context.Context, creditID string, fromPeriod int, items []domain.ScheduleItem) error {
	return r.replaceFrom(ctx, creditID, fromPeriod, items)
}

func (r *scheduleRepository) replaceFrom(ctx context.Context, creditID string, fromPeriod int, items []domain.ScheduleItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM credit_schedule WHERE credit_id = $1 AND period_number >= $2`,
		creditID, fromPeriod,
	)
	if err != nil {
		return err
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, insertScheduleItem,
			item.ID,
			item.CreditID,
			item.PeriodNumber,
			item.DueDate,
			item.PrincipalDue,
			item.InterestDue,
			item.TotalDue,
			item.RemainingBalance,
			item.Status,
			item.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *scheduleRepository) GetByCreditID(ctx context.Context, creditID string) ([]*domain.ScheduleItem, error) {
	query := `
		SELECT id, credit_id, period_number, due_date, principal_due, interest_due, total_due, remaining_balance, status, created_at
		FROM credit_schedule
		WHERE credit_id = $1
		ORDER BY period_number
	`

	var items []*domain.ScheduleItem
	err := r.db.SelectContext(ctx, &items, query, creditID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *scheduleRepository) MarkPaid(ctx context.Context, creditID string, periodNumber int) error {
	query := `
		UPDATE credit_schedule
		SET status = 'paid'
		WHERE credit_id = $1 AND period_number = $2
	`

	_, err := r.db.ExecContext(ctx, query, creditID, periodNumber)
	return err
}

func (r *scheduleRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE credit_schedule
		SET status = 'overdue'
		WHERE status = 'pending' AND due_date < $1
	`

	result, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
