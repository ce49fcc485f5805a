package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/twomark/panel/database"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
)

type sqliteVisualsRepo struct {
	db database.TxQuerier
}

// NewSQLiteVisualsRepo, constructor.
func NewSQLiteVisualsRepo(db database.TxQuerier) VisualsRepository {
	return &sqliteVisualsRepo{db: db}
}

func (r *sqliteVisualsRepo) Get(ctx context.Context) (*models.Visuals, error) {
	var v models.Visuals
	err := r.db.QueryRowContext(ctx, `
		SELECT id, logo_url, logo_width, logo_height, preserve_aspect_ratio,
		       primary_color, secondary_color, accent_color, updated_by, updated_at
		FROM visuals WHERE id = ?`, models.VisualsID,
	).Scan(
		&v.ID, &v.LogoURL, &v.LogoWidth, &v.LogoHeight, &v.PreserveAspectRatio,
		&v.PrimaryColor, &v.SecondaryColor, &v.AccentColor, &v.UpdatedBy, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visuals: %w", err)
	}
	return &v, nil
}

func (r *sqliteVisualsRepo) EnsureDefault(ctx context.Context, v *models.Visuals) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visuals (id, logo_url, logo_width, logo_height, preserve_aspect_ratio,
		                     primary_color, secondary_color, accent_color, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		models.VisualsID, v.LogoURL, v.LogoWidth, v.LogoHeight, v.PreserveAspectRatio,
		v.PrimaryColor, v.SecondaryColor, v.AccentColor, v.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert default visuals: %w", err)
	}
	return nil
}

func (r *sqliteVisualsRepo) Save(ctx context.Context, v *models.Visuals) error {
	v.ID = models.VisualsID
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO visuals (id, logo_url, logo_width, logo_height, preserve_aspect_ratio,
		                     primary_color, secondary_color, accent_color, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			logo_url = excluded.logo_url,
			logo_width = excluded.logo_width,
			logo_height = excluded.logo_height,
			preserve_aspect_ratio = excluded.preserve_aspect_ratio,
			primary_color = excluded.primary_color,
			secondary_color = excluded.secondary_color,
			accent_color = excluded.accent_color,
			updated_by = excluded.updated_by,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`,
		v.ID, v.LogoURL, v.LogoWidth, v.LogoHeight, v.PreserveAspectRatio,
		v.PrimaryColor, v.SecondaryColor, v.AccentColor, v.UpdatedBy,
	).Scan(&v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save visuals: %w", err)
	}
	return nil
}
