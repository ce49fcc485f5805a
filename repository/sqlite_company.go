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

type sqliteCompanyRepo struct {
	db database.TxQuerier
}

// NewSQLiteCompanyRepo, constructor.
func NewSQLiteCompanyRepo(db database.TxQuerier) CompanyRepository {
	return &sqliteCompanyRepo{db: db}
}

const companyColumns = `id, name, username, password_hash, brand_color_hex, logo_url, contact_info, created_at`

func scanCompany(s rowScanner) (*models.Company, error) {
	var c models.Company
	if err := s.Scan(
		&c.ID, &c.Name, &c.Username, &c.PasswordHash,
		&c.BrandColorHex, &c.LogoURL, &c.ContactInfo, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	company.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO companies (id, name, username, password_hash, brand_color_hex, logo_url, contact_info)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at`,
		company.ID, company.Name, company.Username, company.PasswordHash,
		company.BrandColorHex, company.LogoURL, company.ContactInfo,
	).Scan(&company.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

func (r *sqliteCompanyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company by id: %w", err)
	}
	return c, nil
}

func (r *sqliteCompanyRepo) GetByUsername(ctx context.Context, username string) (*models.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company by username: %w", err)
	}
	return c, nil
}

func (r *sqliteCompanyRepo) GetAll(ctx context.Context) ([]models.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all companies: %w", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}
	return companies, nil
}

func (r *sqliteCompanyRepo) Update(ctx context.Context, company *models.Company) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE companies SET name = ?, brand_color_hex = ?, contact_info = ?, logo_url = ?
		WHERE id = ?`,
		company.Name, company.BrandColorHex, company.ContactInfo, company.LogoURL, company.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	return requireAffected(result, "company")
}

func (r *sqliteCompanyRepo) UpdatePassword(ctx context.Context, companyID string, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE companies SET password_hash = ? WHERE id = ?`, passwordHash, companyID)
	if err != nil {
		return fmt.Errorf("failed to update company password: %w", err)
	}
	return requireAffected(result, "company")
}

// Delete, firmayı siler. FK kuralları: payments CASCADE, posts/events/profits
// üzerindeki firma referansları SET NULL.
func (r *sqliteCompanyRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return requireAffected(result, "company")
}
