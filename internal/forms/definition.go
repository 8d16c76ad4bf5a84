// Package forms defines per-event registration fields, builds the
// registration schema from them and validates submissions against it.
package forms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"eventManager/internal/models"
)

var ErrConfiguration = errors.New("invalid field configuration")

// ConfigurationError describes a descriptor rejected at definition time.
type ConfigurationError struct {
	Index  int
	Label  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Index < 0 {
		return e.Reason
	}
	return fmt.Sprintf("field #%d %q: %s", e.Index+1, e.Label, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// FieldInput is a field descriptor as supplied by the organizer.
type FieldInput struct {
	Label       string           `json:"label"`
	Type        models.FieldType `json:"type"`
	Placeholder string           `json:"placeholder"`
	HelpText    string           `json:"help_text"`
	Required    bool             `json:"required"`
	Order       *int             `json:"order"`
	// Choices is either a JSON array of strings or a string holding one.
	Choices   json.RawMessage `json:"choices"`
	MinLength *int            `json:"min_length"`
	MaxLength *int            `json:"max_length"`
	MinValue  *float64        `json:"min_value"`
	MaxValue  *float64        `json:"max_value"`
}

// Define validates descriptors for eventID. Fields without an explicit order
// are placed after nextOrder, in input order.
func Define(eventID int64, inputs []FieldInput, nextOrder int) ([]models.FormField, error) {
	if len(inputs) == 0 {
		return nil, &ConfigurationError{Index: -1, Reason: "at least one field is required"}
	}

	fields := make([]models.FormField, 0, len(inputs))

	for i, in := range inputs {
		f, err := define(in)
		if err != nil {
			return nil, &ConfigurationError{Index: i, Label: in.Label, Reason: err.Error()}
		}

		f.EventID = eventID
		if in.Order != nil {
			f.Order = *in.Order
		} else {
			f.Order = nextOrder + i
		}

		fields = append(fields, f)
	}

	return fields, nil
}

func define(in FieldInput) (models.FormField, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return models.FormField{}, errors.New("label is required")
	}
	if len(label) > 200 {
		return models.FormField{}, errors.New("label is longer than 200 characters")
	}

	if !in.Type.Valid() {
		return models.FormField{}, fmt.Errorf("unknown field type %q", in.Type)
	}

	choices, err := ParseChoices(in.Choices)
	if err != nil {
		return models.FormField{}, err
	}
	if in.Type.NeedsChoices() && len(choices) == 0 {
		return models.FormField{}, errors.New("choices are required for select, radio and checkbox fields")
	}

	if in.Order != nil && *in.Order < 0 {
		return models.FormField{}, errors.New("order must not be negative")
	}
	if (in.MinLength != nil && *in.MinLength < 0) || (in.MaxLength != nil && *in.MaxLength < 0) {
		return models.FormField{}, errors.New("length bounds must not be negative")
	}
	if in.MinLength != nil && in.MaxLength != nil && *in.MinLength > *in.MaxLength {
		return models.FormField{}, errors.New("min_length is greater than max_length")
	}
	if in.MinValue != nil && in.MaxValue != nil && *in.MinValue > *in.MaxValue {
		return models.FormField{}, errors.New("min_value is greater than max_value")
	}

	return models.FormField{
		Label:       label,
		Type:        in.Type,
		Placeholder: strings.TrimSpace(in.Placeholder),
		HelpText:    strings.TrimSpace(in.HelpText),
		Required:    in.Required,
		Choices:     choices,
		MinLength:   in.MinLength,
		MaxLength:   in.MaxLength,
		MinValue:    in.MinValue,
		MaxValue:    in.MaxValue,
	}, nil
}

// ParseChoices decodes a choice list. An absent list yields nil; anything
// that is not a list of distinct non-empty strings is an error.
func ParseChoices(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.New("invalid JSON format for choices")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		raw = []byte(s)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.New("choices must be a JSON array of strings")
	}

	seen := make(map[string]struct{}, len(list))
	choices := make([]string, 0, len(list))

	for _, c := range list {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, errors.New("choices must not be empty strings")
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate choice %q", c)
		}
		seen[c] = struct{}{}
		choices = append(choices, c)
	}

	if len(choices) == 0 {
		return nil, nil
	}

	return choices, nil
}
