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

type sqlitePostRepo struct {
	db database.TxQuerier
}

// NewSQLitePostRepo, constructor.
func NewSQLitePostRepo(db database.TxQuerier) PostRepository {
	return &sqlitePostRepo{db: db}
}

const postSelect = `
	SELECT p.id, p.title, p.content, p.media_url, p.created_by, COALESCE(u.full_name, ''),
	       p.feed_type, p.target_company, c.name, p.created_at
	FROM posts p
	LEFT JOIN users u ON u.id = p.created_by
	LEFT JOIN companies c ON c.id = p.target_company`

func scanPost(s rowScanner) (*models.Post, error) {
	var p models.Post
	if err := s.Scan(
		&p.ID, &p.Title, &p.Content, &p.Media, &p.CreatedBy, &p.CreatorName,
		&p.FeedType, &p.TargetCompany, &p.CompanyName, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqlitePostRepo) Create(ctx context.Context, post *models.Post) error {
	post.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, title, content, media_url, created_by, feed_type, target_company)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at`,
		post.ID, post.Title, post.Content, post.Media, post.CreatedBy,
		post.FeedType, post.TargetCompany,
	).Scan(&post.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: target company not found", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *sqlitePostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

func (r *sqlitePostRepo) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	var w whereBuilder
	if filter.FeedType != "" {
		w.add("p.feed_type = ?", filter.FeedType)
	}
	if filter.CompanyID != "" {
		w.add("p.feed_type = ? AND p.target_company = ?", models.FeedCompany, filter.CompanyID)
	}

	rows, err := r.db.QueryContext(ctx,
		postSelect+w.sql()+` ORDER BY p.created_at DESC, p.rowid DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

func (r *sqlitePostRepo) UpdateMedia(ctx context.Context, id string, mediaURL *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE posts SET media_url = ? WHERE id = ?`, mediaURL, id)
	if err != nil {
		return fmt.Errorf("failed to update post media: %w", err)
	}
	return requireAffected(result, "post")
}

func (r *sqlitePostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireAffected(result, "post")
}
