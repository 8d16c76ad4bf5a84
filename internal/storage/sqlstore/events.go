package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventManager/internal/models"
	"eventManager/internal/storage"
)

const eventColumns = `
	e.id, e.organizer_id, e.title, e.description, e.category, e.status,
	e.start_at, e.end_at, e.is_online, e.venue, e.online_url, e.capacity,
	e.registration_deadline, e.views_count, e.created_at, e.updated_at,
	(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		event     models.Event
		venue     sql.NullString
		onlineURL sql.NullString
		deadline  sql.NullTime
	)

	err := row.Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.Status,
		&event.StartAt,
		&event.EndAt,
		&event.IsOnline,
		&venue,
		&onlineURL,
		&event.Capacity,
		&deadline,
		&event.ViewsCount,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.RegisteredCount,
	)
	if err != nil {
		return nil, err
	}

	event.Venue = venue.String
	event.OnlineURL = onlineURL.String
	if deadline.Valid {
		event.RegistrationDeadline = deadline.Time
	}

	return &event, nil
}

func (s *Storage) CreateEvent(ctx context.Context, organizerID int64, d models.EventDetails) (int64, error) {
	const op = "storage.sqlstore.CreateEvent"

	query := s.rebind(`
		INSERT INTO events (organizer_id, title, description, category, status,
			start_at, end_at, is_online, venue, online_url, capacity,
			registration_deadline, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	now := s.now()

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		organizerID,
		d.Title,
		d.Description,
		string(d.Category),
		string(models.StatusDraft),
		d.StartAt.UTC(),
		d.EndAt.UTC(),
		d.IsOnline,
		nullString(d.Venue),
		nullString(d.OnlineURL),
		d.Capacity,
		nullTime(d.RegistrationDeadline),
		now,
		now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to create event: %w", op, err)
	}

	return id, nil
}

func (s *Storage) Event(ctx context.Context, id int64) (*models.Event, error) {
	const op = "storage.sqlstore.Event"

	event, err := s.loadEvent(ctx, s.db, id, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return event, nil
}

func (s *Storage) loadEvent(ctx context.Context, q queryer, id int64, lock bool) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = ?`
	if lock {
		query += s.dialect.LockSuffix()
	}

	event, err := scanEvent(q.QueryRowContext(ctx, s.rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (s *Storage) UpdateEvent(ctx context.Context, id int64, d models.EventDetails) error {
	const op = "storage.sqlstore.UpdateEvent"

	query := s.rebind(`
		UPDATE events
		SET title = ?, description = ?, category = ?, start_at = ?, end_at = ?,
			is_online = ?, venue = ?, online_url = ?, capacity = ?,
			registration_deadline = ?, updated_at = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		d.Title,
		d.Description,
		string(d.Category),
		d.StartAt.UTC(),
		d.EndAt.UTC(),
		d.IsOnline,
		nullString(d.Venue),
		nullString(d.OnlineURL),
		d.Capacity,
		nullTime(d.RegistrationDeadline),
		s.now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to update event: %w", op, err)
	}

	return expectOne(op, res, storage.ErrEventNotFound)
}

// ListEvents returns events for one of the listing scopes: upcoming published
// events by start time, the admin review queue (everything but drafts, newest
// first), or one organizer's events.
func (s *Storage) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	const op = "storage.sqlstore.ListEvents"

	var (
		where []string
		args  []any
		order string
	)

	switch filter.Scope {
	case models.ScopeUpcoming:
		where = append(where, "e.status = ?", "e.start_at >= ?")
		args = append(args, string(models.StatusPublished), filter.Now.UTC())
		order = "e.start_at ASC, e.id ASC"
	case models.ScopeReview:
		where = append(where, "e.status <> ?")
		args = append(args, string(models.StatusDraft))
		order = "e.created_at DESC, e.id DESC"
	case models.ScopeOrganizer:
		where = append(where, "e.organizer_id = ?")
		args = append(args, filter.OrganizerID)
		order = "e.created_at DESC, e.id DESC"
	default:
		return nil, fmt.Errorf("%s: unknown scope %q", op, filter.Scope)
	}

	query := `SELECT ` + eventColumns + ` FROM events e WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ` + order

	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get events: %w", op, err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan event: %w", op, err)
		}
		events = append(events, *event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: error iterating events: %w", op, err)
	}

	return events, nil
}

func (s *Storage) IncrementViews(ctx context.Context, id int64) error {
	const op = "storage.sqlstore.IncrementViews"

	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE events SET views_count = views_count + 1 WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectOne(op, res, storage.ErrEventNotFound)
}

// SetStatus moves the event from one status to another. It fails with
// ErrStatusChanged when the event is no longer in from. A non-nil rejection
// is recorded in the same transaction.
func (s *Storage) SetStatus(ctx context.Context, id int64, from, to models.Status, rejection *models.Rejection) error {
	const op = "storage.sqlstore.SetStatus"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	now := s.now()

	res, err := tx.ExecContext(ctx,
		s.rebind(`UPDATE events SET status = ?, updated_at = ? WHERE id = ? AND status = ?`),
		string(to), now, id, string(from),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to update status: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		var exists bool
		err = tx.QueryRowContext(ctx, s.rebind(`SELECT EXISTS(SELECT 1 FROM events WHERE id = ?)`), id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
		}
		return fmt.Errorf("%s: %w", op, storage.ErrStatusChanged)
	}

	if rejection != nil {
		_, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO rejections (event_id, admin_id, message, created_at) VALUES (?, ?, ?, ?)`),
			id, rejection.AdminID, rejection.Message, now,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to record rejection: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return nil
}

func (s *Storage) Rejections(ctx context.Context, eventID int64) ([]models.Rejection, error) {
	const op = "storage.sqlstore.Rejections"

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, event_id, admin_id, message, created_at
		FROM rejections
		WHERE event_id = ?
		ORDER BY created_at DESC, id DESC`), eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	rejections := make([]models.Rejection, 0)
	for rows.Next() {
		var r models.Rejection
		if err = rows.Scan(&r.ID, &r.EventID, &r.AdminID, &r.Message, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan rejection: %w", op, err)
		}
		rejections = append(rejections, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rejections, nil
}

func expectOne(op string, res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, notFound)
	}
	return nil
}
