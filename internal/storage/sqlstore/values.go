package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"eventManager/internal/models"
)

// valueRow is the column layout of registration_values. Exactly one slot is
// set for a present value; all slots are NULL for an optional field left
// empty.
type valueRow struct {
	kind     string
	text     sql.NullString
	number   sql.NullFloat64
	date     sql.NullTime
	datetime sql.NullTime
	boolean  sql.NullBool
	file     sql.NullString
	choices  sql.NullString
}

func (r *valueRow) args() []any {
	return []any{r.kind, r.text, r.number, r.date, r.datetime, r.boolean, r.file, r.choices}
}

func (r *valueRow) dest() []any {
	return []any{&r.kind, &r.text, &r.number, &r.date, &r.datetime, &r.boolean, &r.file, &r.choices}
}

func encodeValue(kind models.ValueKind, v models.Value) (valueRow, error) {
	row := valueRow{kind: string(kind)}

	switch v := v.(type) {
	case nil:
	case models.TextValue:
		row.text = sql.NullString{String: v.Text, Valid: true}
	case models.NumberValue:
		row.number = sql.NullFloat64{Float64: v.Number, Valid: true}
	case models.DateValue:
		row.date = sql.NullTime{Time: dateOnly(v.Date), Valid: true}
	case models.DateTimeValue:
		row.datetime = sql.NullTime{Time: v.Time.UTC(), Valid: true}
	case models.BoolValue:
		row.boolean = sql.NullBool{Bool: v.Bool, Valid: true}
	case models.FileValue:
		data, err := json.Marshal(v)
		if err != nil {
			return valueRow{}, err
		}
		row.file = sql.NullString{String: string(data), Valid: true}
	case models.ChoicesValue:
		choices := v.Choices
		if choices == nil {
			choices = []string{}
		}
		data, err := json.Marshal(choices)
		if err != nil {
			return valueRow{}, err
		}
		row.choices = sql.NullString{String: string(data), Valid: true}
	default:
		return valueRow{}, fmt.Errorf("unsupported value %T", v)
	}

	return row, nil
}

func decodeValue(row valueRow) (models.Value, error) {
	switch models.ValueKind(row.kind) {
	case models.KindText:
		if row.text.Valid {
			return models.TextValue{Text: row.text.String}, nil
		}
	case models.KindNumber:
		if row.number.Valid {
			return models.NumberValue{Number: row.number.Float64}, nil
		}
	case models.KindDate:
		if row.date.Valid {
			return models.DateValue{Date: dateOnly(row.date.Time)}, nil
		}
	case models.KindDateTime:
		if row.datetime.Valid {
			return models.DateTimeValue{Time: row.datetime.Time.UTC()}, nil
		}
	case models.KindBool:
		if row.boolean.Valid {
			return models.BoolValue{Bool: row.boolean.Bool}, nil
		}
	case models.KindFile:
		if row.file.Valid {
			var f models.FileValue
			if err := json.Unmarshal([]byte(row.file.String), &f); err != nil {
				return nil, fmt.Errorf("malformed file value: %w", err)
			}
			return f, nil
		}
	case models.KindChoices:
		if row.choices.Valid {
			var choices []string
			if err := json.Unmarshal([]byte(row.choices.String), &choices); err != nil {
				return nil, fmt.Errorf("malformed choices value: %w", err)
			}
			if choices == nil {
				choices = []string{}
			}
			return models.ChoicesValue{Choices: choices}, nil
		}
	default:
		return nil, fmt.Errorf("unknown value kind %q", row.kind)
	}

	return nil, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
