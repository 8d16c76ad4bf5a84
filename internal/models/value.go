package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ValueKind names the storage slot a typed answer occupies.
type ValueKind string

const (
	KindText     ValueKind = "text"
	KindNumber   ValueKind = "number"
	KindDate     ValueKind = "date"
	KindDateTime ValueKind = "datetime"
	KindBool     ValueKind = "boolean"
	KindFile     ValueKind = "file"
	KindChoices  ValueKind = "choices"
)

const DateLayout = "2006-01-02"

// Value is the answer to one dynamic field. Implementations are closed to
// this package; the field's FieldType decides which one is legal.
type Value interface {
	Kind() ValueKind
	isValue()
}

type TextValue struct{ Text string }

type NumberValue struct{ Number float64 }

type DateValue struct{ Date time.Time }

type DateTimeValue struct{ Time time.Time }

type BoolValue struct{ Bool bool }

type FileValue struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type ChoicesValue struct{ Choices []string }

func (TextValue) Kind() ValueKind     { return KindText }
func (NumberValue) Kind() ValueKind   { return KindNumber }
func (DateValue) Kind() ValueKind     { return KindDate }
func (DateTimeValue) Kind() ValueKind { return KindDateTime }
func (BoolValue) Kind() ValueKind     { return KindBool }
func (FileValue) Kind() ValueKind     { return KindFile }
func (ChoicesValue) Kind() ValueKind  { return KindChoices }

func (TextValue) isValue()     {}
func (NumberValue) isValue()   {}
func (DateValue) isValue()     {}
func (DateTimeValue) isValue() {}
func (BoolValue) isValue()     {}
func (FileValue) isValue()     {}
func (ChoicesValue) isValue()  {}

// KindFor maps a field type to the only value kind it may hold.
func KindFor(t FieldType) (ValueKind, error) {
	switch t {
	case FieldText, FieldTextarea, FieldEmail, FieldPhone, FieldSelect, FieldRadio:
		return KindText, nil
	case FieldNumber:
		return KindNumber, nil
	case FieldDate:
		return KindDate, nil
	case FieldDateTime:
		return KindDateTime, nil
	case FieldBoolean:
		return KindBool, nil
	case FieldFile:
		return KindFile, nil
	case FieldCheckbox:
		return KindChoices, nil
	}
	return "", fmt.Errorf("unknown field type %q", t)
}

func (v TextValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Text)
}

func (v NumberValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Number)
}

func (v DateValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Date.Format(DateLayout))
}

func (v DateTimeValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Time.Format(time.RFC3339))
}

func (v BoolValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Bool)
}

func (v ChoicesValue) MarshalJSON() ([]byte, error) {
	if v.Choices == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Choices)
}
