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

type sqliteEventRepo struct {
	db database.TxQuerier
}

// NewSQLiteEventRepo, constructor.
func NewSQLiteEventRepo(db database.TxQuerier) EventRepository {
	return &sqliteEventRepo{db: db}
}

// eventSelect, renk kolonu verilen ifadeyle seçilen sorgu gövdesini döner.
// GetByID ham color_hex'i okur. Firma rengi yazma anında service katmanında
// doldurulur; List rengi boş eski kayıtlar için firma rengine düşer.
func eventSelect(colorExpr string) string {
	return `
	SELECT e.id, e.title, e.description, e.date, e.start_time, e.end_time, e.location,
	       e.created_by, e.assigned_company, c.name, e.assigned_editors, e.type,
	       ` + colorExpr + `, e.created_at
	FROM events e
	LEFT JOIN companies c ON c.id = e.assigned_company`
}

func scanEvent(s rowScanner) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	var editors string
	if err := s.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.StartTime, &e.EndTime, &e.Location,
		&e.CreatedBy, &e.AssignedCompany, &e.CompanyName, &editors, &e.Type,
		&e.ColorHex, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.AssignedEditors = decodeList[string](editors)
	return &e, nil
}

func (r *sqliteEventRepo) Create(ctx context.Context, event *models.CalendarEvent) error {
	editors, err := encodeList(event.AssignedEditors)
	if err != nil {
		return err
	}

	event.ID = uuid.NewString()
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO events (id, title, description, date, start_time, end_time, location,
		                    created_by, assigned_company, assigned_editors, type, color_hex)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at`,
		event.ID, event.Title, event.Description, event.Date, event.StartTime, event.EndTime,
		event.Location, event.CreatedBy, event.AssignedCompany, editors, event.Type, event.ColorHex,
	).Scan(&event.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: assigned company not found", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *sqliteEventRepo) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect("e.color_hex")+` WHERE e.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func (r *sqliteEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, error) {
	var w whereBuilder
	w.dateRange("e.date", filter.Range)
	if filter.CompanyID != "" {
		w.add("e.assigned_company = ?", filter.CompanyID)
	}
	if filter.EditorID != "" {
		w.add(`(e.type = ? OR e.created_by = ?
			OR EXISTS (SELECT 1 FROM json_each(e.assigned_editors) WHERE json_each.value = ?))`,
			models.EventShared, filter.EditorID, filter.EditorID)
	}

	rows, err := r.db.QueryContext(ctx,
		eventSelect("COALESCE(e.color_hex, c.brand_color_hex)")+w.sql()+` ORDER BY e.date, e.start_time, e.created_at`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.CalendarEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *sqliteEventRepo) Update(ctx context.Context, event *models.CalendarEvent) error {
	editors, err := encodeList(event.AssignedEditors)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE events SET title = ?, description = ?, date = ?, start_time = ?, end_time = ?,
		       location = ?, assigned_company = ?, assigned_editors = ?, type = ?, color_hex = ?
		WHERE id = ?`,
		event.Title, event.Description, event.Date, event.StartTime, event.EndTime,
		event.Location, event.AssignedCompany, editors, event.Type, event.ColorHex, event.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: assigned company not found", pkg.ErrBadRequest)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return requireAffected(result, "event")
}

func (r *sqliteEventRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireAffected(result, "event")
}
