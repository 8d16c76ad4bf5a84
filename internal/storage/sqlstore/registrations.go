package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"eventManager/internal/lifecycle"
	"eventManager/internal/models"
	"eventManager/internal/storage"
)

// Register stores a registration and its answers in one transaction. The
// event row is locked and the registration gate is evaluated again inside the
// transaction, so a registration that lost a race for the last seat or for
// the same email fails without leaving partial rows.
func (s *Storage) Register(ctx context.Context, reg models.NewRegistration) (int64, error) {
	const op = "storage.sqlstore.Register"

	email := strings.ToLower(strings.TrimSpace(reg.Email))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	event, err := s.loadEvent(ctx, tx, reg.EventID, true)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()

	if err = lifecycle.CheckRegistration(event, event.RegisteredCount, now); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		s.rebind(`SELECT EXISTS(SELECT 1 FROM registrations WHERE event_id = ? AND email = ?)`),
		reg.EventID, email,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to check existing registration: %w", op, err)
	}
	if exists {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrDuplicateRegistration)
	}

	var userID any
	if reg.UserID != nil {
		userID = *reg.UserID
	}

	var id int64
	err = tx.QueryRowContext(ctx, s.rebind(`
		INSERT INTO registrations (event_id, user_id, email, first_name, last_name, registered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		reg.EventID, userID, email, strings.TrimSpace(reg.FirstName), strings.TrimSpace(reg.LastName), now,
	).Scan(&id)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrDuplicateRegistration)
		}
		return 0, fmt.Errorf("%s: failed to create registration: %w", op, err)
	}

	if err = s.insertAnswers(ctx, tx, reg.EventID, id, reg.Answers); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrDuplicateRegistration)
		}
		return 0, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return id, nil
}

func (s *Storage) insertAnswers(ctx context.Context, q queryer, eventID, registrationID int64, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	fields, err := s.loadFields(ctx, q, eventID)
	if err != nil {
		return err
	}

	byID := make(map[int64]models.FormField, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	query := s.rebind(`
		INSERT INTO registration_values (registration_id, field_id, value_kind, text_value,
			number_value, date_value, datetime_value, boolean_value, file_value, selected_choices)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	for _, a := range answers {
		f, ok := byID[a.FieldID]
		if !ok {
			return fmt.Errorf("field %d: %w", a.FieldID, storage.ErrFieldNotFound)
		}

		kind, err := models.KindFor(f.Type)
		if err != nil {
			return fmt.Errorf("field %d: %w", f.ID, err)
		}
		if a.Value != nil && a.Value.Kind() != kind {
			return fmt.Errorf("field %d: %w", f.ID, storage.ErrValueKindMismatch)
		}

		row, err := encodeValue(kind, a.Value)
		if err != nil {
			return fmt.Errorf("field %d: %w", f.ID, err)
		}

		args := append([]any{registrationID, f.ID}, row.args()...)
		if _, err = q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("field %d: failed to store value: %w", f.ID, err)
		}
	}

	return nil
}

// Registrations returns the event's registrations with decoded answers,
// oldest first.
func (s *Storage) Registrations(ctx context.Context, eventID int64) ([]models.Registration, error) {
	const op = "storage.sqlstore.Registrations"

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, event_id, user_id, email, first_name, last_name, registered_at
		FROM registrations
		WHERE event_id = ?
		ORDER BY registered_at ASC, id ASC`), eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	regs := make([]models.Registration, 0)
	index := make(map[int64]int)

	for rows.Next() {
		var (
			r      models.Registration
			userID sql.NullInt64
		)
		if err = rows.Scan(&r.ID, &r.EventID, &userID, &r.Email, &r.FirstName, &r.LastName, &r.RegisteredAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan registration: %w", op, err)
		}
		if userID.Valid {
			id := userID.Int64
			r.UserID = &id
		}
		r.Answers = make([]models.Answer, 0)

		index[r.ID] = len(regs)
		regs = append(regs, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rows.Close()

	if len(regs) == 0 {
		return regs, nil
	}

	valueRows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT v.registration_id, v.field_id, f.label, f.field_type, v.value_kind, v.text_value,
			v.number_value, v.date_value, v.datetime_value, v.boolean_value, v.file_value, v.selected_choices
		FROM registration_values v
		JOIN registrations r ON r.id = v.registration_id
		JOIN form_fields f ON f.id = v.field_id
		WHERE r.event_id = ?
		ORDER BY v.registration_id ASC, f.sort_order ASC, f.id ASC`), eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get values: %w", op, err)
	}
	defer valueRows.Close()

	for valueRows.Next() {
		var (
			regID int64
			a     models.Answer
			row   valueRow
		)

		dest := append([]any{&regID, &a.FieldID, &a.Label, &a.Type}, row.dest()...)
		if err = valueRows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: failed to scan value: %w", op, err)
		}

		want, err := models.KindFor(a.Type)
		if err != nil || string(want) != row.kind {
			return nil, fmt.Errorf("%s: field %d: %w", op, a.FieldID, storage.ErrValueKindMismatch)
		}

		if a.Value, err = decodeValue(row); err != nil {
			return nil, fmt.Errorf("%s: field %d: %w", op, a.FieldID, err)
		}

		if i, ok := index[regID]; ok {
			regs[i].Answers = append(regs[i].Answers, a)
		}
	}

	if err = valueRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return regs, nil
}
