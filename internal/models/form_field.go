package models

import "time"

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldDateTime FieldType = "datetime"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldBoolean  FieldType = "boolean"
	FieldFile     FieldType = "file"
)

var FieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldEmail, FieldPhone, FieldNumber, FieldDate,
	FieldDateTime, FieldSelect, FieldRadio, FieldCheckbox, FieldBoolean, FieldFile,
}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// NeedsChoices reports whether fields of this type must declare a choice list.
func (t FieldType) NeedsChoices() bool {
	return t == FieldSelect || t == FieldRadio || t == FieldCheckbox
}

type FormField struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
	HelpText    string    `json:"help_text,omitempty"`
	Required    bool      `json:"required"`
	Order       int       `json:"order"`
	Choices     []string  `json:"choices,omitempty"`
	MinLength   *int      `json:"min_length,omitempty"`
	MaxLength   *int      `json:"max_length,omitempty"`
	MinValue    *float64  `json:"min_value,omitempty"`
	MaxValue    *float64  `json:"max_value,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
