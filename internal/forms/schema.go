package forms

import (
	"sort"
	"strconv"
	"strings"

	"eventManager/internal/models"
)

// Keys of the fields every registration form carries.
const (
	KeyEmail     = "email"
	KeyFirstName = "first_name"
	KeyLastName  = "last_name"

	nameMaxLength  = 100
	emailMaxLength = 254
)

type SchemaField struct {
	Key         string           `json:"key"`
	FieldID     int64            `json:"field_id,omitempty"`
	Label       string           `json:"label"`
	Type        models.FieldType `json:"type"`
	Required    bool             `json:"required"`
	Placeholder string           `json:"placeholder,omitempty"`
	HelpText    string           `json:"help_text,omitempty"`
	Choices     []string         `json:"choices,omitempty"`
	MinLength   *int             `json:"min_length,omitempty"`
	MaxLength   *int             `json:"max_length,omitempty"`
	MinValue    *float64         `json:"min_value,omitempty"`
	MaxValue    *float64         `json:"max_value,omitempty"`
	// Rule is the validator tag applied to scalar values of the field.
	Rule string `json:"rule,omitempty"`
}

type Schema struct {
	EventID int64         `json:"event_id"`
	Fields  []SchemaField `json:"fields"`
}

func FieldKey(id int64) string {
	return "field_" + strconv.FormatInt(id, 10)
}

// Build returns the registration schema for an event: the fixed contact
// fields followed by the event's own fields ordered by (order, id).
func Build(eventID int64, fields []models.FormField) *Schema {
	sorted := make([]models.FormField, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	nameMax := nameMaxLength
	emailMax := emailMaxLength

	schema := &Schema{
		EventID: eventID,
		Fields: []SchemaField{
			{Key: KeyEmail, Label: "Email", Type: models.FieldEmail, Required: true, MaxLength: &emailMax},
			{Key: KeyFirstName, Label: "First name", Type: models.FieldText, Required: true, MaxLength: &nameMax},
			{Key: KeyLastName, Label: "Last name", Type: models.FieldText, Required: true, MaxLength: &nameMax},
		},
	}

	for _, f := range sorted {
		schema.Fields = append(schema.Fields, SchemaField{
			Key:         FieldKey(f.ID),
			FieldID:     f.ID,
			Label:       f.Label,
			Type:        f.Type,
			Required:    f.Required,
			Placeholder: f.Placeholder,
			HelpText:    f.HelpText,
			Choices:     f.Choices,
			MinLength:   f.MinLength,
			MaxLength:   f.MaxLength,
			MinValue:    f.MinValue,
			MaxValue:    f.MaxValue,
		})
	}

	for i := range schema.Fields {
		schema.Fields[i].Rule = rule(schema.Fields[i])
	}

	return schema
}

// rule maps a field to the validator tag checked against its scalar value.
// Choice, date, boolean and file fields are checked structurally instead.
func rule(f SchemaField) string {
	var parts []string

	switch f.Type {
	case models.FieldText, models.FieldTextarea, models.FieldPhone:
		if f.MinLength != nil {
			parts = append(parts, "min="+strconv.Itoa(*f.MinLength))
		}
		if f.MaxLength != nil {
			parts = append(parts, "max="+strconv.Itoa(*f.MaxLength))
		}
	case models.FieldEmail:
		parts = append(parts, "email")
		if f.MaxLength != nil {
			parts = append(parts, "max="+strconv.Itoa(*f.MaxLength))
		}
	case models.FieldNumber:
		if f.MinValue != nil {
			parts = append(parts, "gte="+strconv.FormatFloat(*f.MinValue, 'f', -1, 64))
		}
		if f.MaxValue != nil {
			parts = append(parts, "lte="+strconv.FormatFloat(*f.MaxValue, 'f', -1, 64))
		}
	}

	return strings.Join(parts, ",")
}
