package storage

import "errors"

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrStatusChanged         = errors.New("event status changed concurrently")
	ErrUserExists            = errors.New("user already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrFieldNotFound         = errors.New("field does not belong to event")
	ErrValueKindMismatch     = errors.New("value does not match field type")
	ErrDuplicateRegistration = errors.New("already registered for this event")
	ErrBudgetItemNotFound    = errors.New("budget item not found")
)
