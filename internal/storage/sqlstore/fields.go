package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"eventManager/internal/models"
)

// NextFieldOrder returns the order that follows the event's last field.
func (s *Storage) NextFieldOrder(ctx context.Context, eventID int64) (int, error) {
	const op = "storage.sqlstore.NextFieldOrder"

	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT MAX(sort_order) FROM form_fields WHERE event_id = ?`), eventID,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if !last.Valid {
		return 0, nil
	}

	return int(last.Int64) + 1, nil
}

// AddFields stores fields and returns them with their ids set.
func (s *Storage) AddFields(ctx context.Context, fields []models.FormField) ([]models.FormField, error) {
	const op = "storage.sqlstore.AddFields"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	query := s.rebind(`
		INSERT INTO form_fields (event_id, label, field_type, placeholder, help_text,
			required, sort_order, choices, min_length, max_length, min_value, max_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	now := s.now()
	stored := make([]models.FormField, 0, len(fields))

	for _, f := range fields {
		var choices sql.NullString
		if len(f.Choices) > 0 {
			data, err := json.Marshal(f.Choices)
			if err != nil {
				return nil, fmt.Errorf("%s: failed to encode choices: %w", op, err)
			}
			choices = sql.NullString{String: string(data), Valid: true}
		}

		err = tx.QueryRowContext(ctx, query,
			f.EventID,
			f.Label,
			string(f.Type),
			nullString(f.Placeholder),
			nullString(f.HelpText),
			f.Required,
			f.Order,
			choices,
			nullInt(f.MinLength),
			nullInt(f.MaxLength),
			nullFloat(f.MinValue),
			nullFloat(f.MaxValue),
			now,
		).Scan(&f.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to insert field: %w", op, err)
		}

		f.CreatedAt = now
		stored = append(stored, f)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return stored, nil
}

// Fields returns the event's fields ordered by (order, id).
func (s *Storage) Fields(ctx context.Context, eventID int64) ([]models.FormField, error) {
	const op = "storage.sqlstore.Fields"

	fields, err := s.loadFields(ctx, s.db, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return fields, nil
}

func (s *Storage) loadFields(ctx context.Context, q queryer, eventID int64) ([]models.FormField, error) {
	rows, err := q.QueryContext(ctx, s.rebind(`
		SELECT id, event_id, label, field_type, placeholder, help_text, required, sort_order,
			choices, min_length, max_length, min_value, max_value, created_at
		FROM form_fields
		WHERE event_id = ?
		ORDER BY sort_order ASC, id ASC`), eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fields: %w", err)
	}
	defer rows.Close()

	fields := make([]models.FormField, 0)
	for rows.Next() {
		var (
			f                    models.FormField
			placeholder, help    sql.NullString
			choices              sql.NullString
			minLength, maxLength sql.NullInt64
			minValue, maxValue   sql.NullFloat64
		)

		err = rows.Scan(&f.ID, &f.EventID, &f.Label, &f.Type, &placeholder, &help, &f.Required, &f.Order,
			&choices, &minLength, &maxLength, &minValue, &maxValue, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}

		f.Placeholder = placeholder.String
		f.HelpText = help.String
		if choices.Valid && choices.String != "" {
			if err = json.Unmarshal([]byte(choices.String), &f.Choices); err != nil {
				return nil, fmt.Errorf("field %d: malformed choices: %w", f.ID, err)
			}
		}
		f.MinLength = intFromNull(minLength)
		f.MaxLength = intFromNull(maxLength)
		f.MinValue = floatFromNull(minValue)
		f.MaxValue = floatFromNull(maxValue)

		fields = append(fields, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fields: %w", err)
	}

	return fields, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func floatFromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
