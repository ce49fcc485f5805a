package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/twomark/panel/database"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
)

type sqlitePaymentRepo struct {
	db database.TxQuerier
}

// NewSQLitePaymentRepo, constructor.
func NewSQLitePaymentRepo(db database.TxQuerier) PaymentRepository {
	return &sqlitePaymentRepo{db: db}
}

const paymentSelect = `
	SELECT p.id, p.created_by, p.company_id, c.name, p.title, p.amount_cents, p.status,
	       p.date, p.notes, p.created_at, p.updated_at
	FROM payments p
	JOIN companies c ON c.id = p.company_id`

func scanPayment(s rowScanner) (*models.Payment, error) {
	var p models.Payment
	if err := s.Scan(
		&p.ID, &p.CreatedBy, &p.CompanyID, &p.CompanyName, &p.Title, &p.Amount, &p.Status,
		&p.Date, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func paymentWhere(filter models.PaymentFilter) whereBuilder {
	var w whereBuilder
	if filter.CompanyID != "" {
		w.add("p.company_id = ?", filter.CompanyID)
	}
	w.dateRange("p.date", filter.Range)
	return w
}

func (r *sqlitePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (id, created_by, company_id, title, amount_cents, status, date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at, updated_at`,
		payment.ID, payment.CreatedBy, payment.CompanyID, payment.Title,
		payment.Amount, payment.Status, payment.Date, payment.Notes,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: company not found", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *sqlitePaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, paymentSelect+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func (r *sqlitePaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	w := paymentWhere(filter)
	rows, err := r.db.QueryContext(ctx,
		paymentSelect+w.sql()+` ORDER BY p.date DESC, p.created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

// Update, firma dışındaki alanları yazar ve updated_at'i yeniler.
func (r *sqlitePaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE payments SET title = ?, amount_cents = ?, status = ?, date = ?, notes = ?,
		       updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING updated_at`,
		payment.Title, payment.Amount, payment.Status, payment.Date, payment.Notes, payment.ID,
	).Scan(&payment.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: payment", pkg.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (r *sqlitePaymentRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return requireAffected(result, "payment")
}

func (r *sqlitePaymentRepo) Summary(ctx context.Context, filter models.PaymentFilter) (*models.PaymentSummary, error) {
	w := paymentWhere(filter)
	args := append([]any{models.PaymentPending, models.PaymentPending, models.PaymentPaid, models.PaymentPaid}, w.args...)

	var s models.PaymentSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN p.status = ? THEN p.amount_cents END), 0),
		       COUNT(CASE WHEN p.status = ? THEN 1 END),
		       COALESCE(SUM(CASE WHEN p.status = ? THEN p.amount_cents END), 0),
		       COUNT(CASE WHEN p.status = ? THEN 1 END)
		FROM payments p`+w.sql(), args...,
	).Scan(&s.PendingTotal, &s.PendingCount, &s.PaidTotal, &s.PaidCount)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize payments: %w", err)
	}
	return &s, nil
}
