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

type sqliteProfitRepo struct {
	db database.TxQuerier
}

// NewSQLiteProfitRepo, constructor.
func NewSQLiteProfitRepo(db database.TxQuerier) ProfitRepository {
	return &sqliteProfitRepo{db: db}
}

const profitColumns = `id, admin_id, type, amount_cents, company_id, company_text, description, date, created_at`

func scanProfit(s rowScanner) (*models.ProfitRecord, error) {
	var p models.ProfitRecord
	if err := s.Scan(
		&p.ID, &p.AdminID, &p.Type, &p.Amount, &p.CompanyID,
		&p.CompanyText, &p.Description, &p.Date, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteProfitRepo) Create(ctx context.Context, record *models.ProfitRecord) error {
	record.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO profits (id, admin_id, type, amount_cents, company_id, company_text, description, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at`,
		record.ID, record.AdminID, record.Type, record.Amount, record.CompanyID,
		record.CompanyText, record.Description, record.Date,
	).Scan(&record.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: company not found", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to create profit record: %w", err)
	}
	return nil
}

func (r *sqliteProfitRepo) GetByID(ctx context.Context, adminID, id string) (*models.ProfitRecord, error) {
	p, err := scanProfit(r.db.QueryRowContext(ctx,
		`SELECT `+profitColumns+` FROM profits WHERE id = ? AND admin_id = ?`, id, adminID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profit record: %w", err)
	}
	return p, nil
}

func (r *sqliteProfitRepo) List(ctx context.Context, adminID string, rng models.DateRange) ([]models.ProfitRecord, error) {
	var w whereBuilder
	w.add("admin_id = ?", adminID)
	w.dateRange("date", rng)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profitColumns+` FROM profits`+w.sql()+` ORDER BY date DESC, created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profit records: %w", err)
	}
	defer rows.Close()

	records := []models.ProfitRecord{}
	for rows.Next() {
		p, err := scanProfit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profit row: %w", err)
		}
		records = append(records, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profit rows: %w", err)
	}
	return records, nil
}

func (r *sqliteProfitRepo) Update(ctx context.Context, record *models.ProfitRecord) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profits SET type = ?, amount_cents = ?, company_id = ?, company_text = ?,
		       description = ?, date = ?
		WHERE id = ? AND admin_id = ?`,
		record.Type, record.Amount, record.CompanyID, record.CompanyText,
		record.Description, record.Date, record.ID, record.AdminID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: company not found", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to update profit record: %w", err)
	}
	return requireAffected(result, "profit record")
}

func (r *sqliteProfitRepo) Delete(ctx context.Context, adminID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM profits WHERE id = ? AND admin_id = ?`, id, adminID)
	if err != nil {
		return fmt.Errorf("failed to delete profit record: %w", err)
	}
	return requireAffected(result, "profit record")
}

func (r *sqliteProfitRepo) Totals(ctx context.Context, adminID string, rng models.DateRange, width PeriodWidth) ([]models.ProfitPeriod, error) {
	var w whereBuilder
	w.add("admin_id = ?", adminID)
	w.dateRange("date", rng)

	args := append([]any{int(width), models.ProfitIncome, models.ProfitExpense}, w.args...)
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(date, 1, ?) AS period,
		       COALESCE(SUM(CASE WHEN type = ? THEN amount_cents END), 0),
		       COALESCE(SUM(CASE WHEN type = ? THEN amount_cents END), 0),
		       COUNT(*)
		FROM profits`+w.sql()+`
		GROUP BY period
		ORDER BY period DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to total profit records: %w", err)
	}
	defer rows.Close()

	periods := []models.ProfitPeriod{}
	for rows.Next() {
		var p models.ProfitPeriod
		if err := rows.Scan(&p.Period, &p.Income, &p.Expense, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan profit period: %w", err)
		}
		p.Net = p.Income - p.Expense
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profit periods: %w", err)
	}
	return periods, nil
}
