package forms

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"eventManager/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// Attachment is an uploaded file that has not been stored yet.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Submission is the raw form data of a registration, keyed like the schema.
type Submission struct {
	Values map[string][]string
	Files  map[string]*Attachment
}

func (s Submission) first(key string) string {
	if vs := s.Values[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Cleaned is a submission that passed validation. File answers carry a nil
// Value until the attachment is stored; see Files.
type Cleaned struct {
	Email     string
	FirstName string
	LastName  string
	Answers   []models.Answer
	Files     map[int64]*Attachment
}

// ValidationErrors maps schema keys to messages.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

const msgRequired = "this field is required"

// Validate checks sub against the schema. It returns ValidationErrors when
// any field is invalid; nothing is stored either way.
func (s *Schema) Validate(sub Submission) (*Cleaned, error) {
	cleaned := &Cleaned{Files: make(map[int64]*Attachment)}
	errs := ValidationErrors{}

	for _, f := range s.Fields {
		value, err := clean(f, sub)
		if err != nil {
			errs[f.Key] = err.Error()
			continue
		}

		switch f.Key {
		case KeyEmail:
			cleaned.Email = strings.ToLower(textOf(value))
			continue
		case KeyFirstName:
			cleaned.FirstName = textOf(value)
			continue
		case KeyLastName:
			cleaned.LastName = textOf(value)
			continue
		}

		if f.Type == models.FieldFile {
			if att := sub.Files[f.Key]; att != nil && att.Size > 0 {
				cleaned.Files[f.FieldID] = att
			}
		}

		cleaned.Answers = append(cleaned.Answers, models.Answer{
			FieldID: f.FieldID,
			Label:   f.Label,
			Type:    f.Type,
			Value:   value,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return cleaned, nil
}

func textOf(v models.Value) string {
	if t, ok := v.(models.TextValue); ok {
		return t.Text
	}
	return ""
}

// clean converts the submitted data of one field into its typed value. A nil
// value with a nil error means an optional field was left empty.
func clean(f SchemaField, sub Submission) (models.Value, error) {
	raw := sub.first(f.Key)

	switch f.Type {
	case models.FieldText, models.FieldTextarea, models.FieldPhone, models.FieldEmail:
		if raw == "" {
			return optional(f)
		}
		if err := checkRule(raw, f.Rule); err != nil {
			return nil, err
		}
		return models.TextValue{Text: raw}, nil

	case models.FieldNumber:
		if raw == "" {
			return optional(f)
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, errors.New("enter a number")
		}
		if err := checkRule(n, f.Rule); err != nil {
			return nil, err
		}
		return models.NumberValue{Number: n}, nil

	case models.FieldDate:
		if raw == "" {
			return optional(f)
		}
		d, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return nil, errors.New("enter a valid date")
		}
		return models.DateValue{Date: d}, nil

	case models.FieldDateTime:
		if raw == "" {
			return optional(f)
		}
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return models.DateTimeValue{Time: t}, nil
			}
		}
		return nil, errors.New("enter a valid date/time")

	case models.FieldSelect, models.FieldRadio:
		if raw == "" {
			return optional(f)
		}
		if !contains(f.Choices, raw) {
			return nil, invalidChoice(raw)
		}
		return models.TextValue{Text: raw}, nil

	case models.FieldCheckbox:
		// Required is not enforced for checkboxes; the number of selections
		// is bounded by min_length/max_length instead.
		selected := make([]string, 0, len(sub.Values[f.Key]))
		for _, v := range sub.Values[f.Key] {
			v = strings.TrimSpace(v)
			if v == "" || contains(selected, v) {
				continue
			}
			if !contains(f.Choices, v) {
				return nil, invalidChoice(v)
			}
			selected = append(selected, v)
		}
		if f.MinLength != nil && len(selected) < *f.MinLength {
			return nil, fmt.Errorf("select at least %d choices", *f.MinLength)
		}
		if f.MaxLength != nil && len(selected) > *f.MaxLength {
			return nil, fmt.Errorf("select at most %d choices", *f.MaxLength)
		}
		return models.ChoicesValue{Choices: selected}, nil

	case models.FieldBoolean:
		checked := parseBool(raw)
		if f.Required && !checked {
			return nil, errors.New(msgRequired)
		}
		return models.BoolValue{Bool: checked}, nil

	case models.FieldFile:
		att := sub.Files[f.Key]
		if att == nil || att.Size == 0 {
			return optional(f)
		}
		return nil, nil
	}

	return nil, fmt.Errorf("unsupported field type %q", f.Type)
}

func optional(f SchemaField) (models.Value, error) {
	if f.Required {
		return nil, errors.New(msgRequired)
	}
	return nil, nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

func contains(list []string, v string) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}

func invalidChoice(v string) error {
	return fmt.Errorf("select a valid choice, %q is not one of the available choices", v)
}

func checkRule(value any, tag string) error {
	if tag == "" {
		return nil
	}

	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return errors.New("enter a valid email address")
	case "min":
		return fmt.Errorf("ensure this value has at least %s characters", fe.Param())
	case "max":
		return fmt.Errorf("ensure this value has at most %s characters", fe.Param())
	case "gte":
		return fmt.Errorf("ensure this value is greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Errorf("ensure this value is less than or equal to %s", fe.Param())
	}

	return errors.New("enter a valid value")
}
