package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"eventManager/internal/authz"
	"eventManager/internal/lifecycle"
	"eventManager/internal/models"
	"eventManager/internal/storage"
	"eventManager/internal/storage/sqlite"
	"eventManager/internal/storage/sqlstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *sqlstore.Storage {
	t.Helper()

	s, err := sqlite.InitDB(context.Background(), filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func createUser(t *testing.T, s *sqlstore.Storage, username string, role models.Role) models.Actor {
	t.Helper()

	id, err := s.CreateUser(context.Background(), models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	return models.Actor{UserID: id, Role: role}
}

func details(capacity int, deadline time.Time) models.EventDetails {
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	return models.EventDetails{
		Title:                "GopherCon",
		Description:          "Talks and workshops",
		Category:             models.CategoryConference,
		StartAt:              start,
		EndAt:                start.Add(8 * time.Hour),
		Venue:                "Main hall",
		Capacity:             capacity,
		RegistrationDeadline: deadline,
	}
}

// publishedEvent creates an event and walks it through submit and approve.
func publishedEvent(t *testing.T, s *sqlstore.Storage, organizer models.Actor, d models.EventDetails) int64 {
	t.Helper()
	ctx := context.Background()

	id, err := s.CreateEvent(ctx, organizer.UserID, d)
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, id, models.StatusDraft, models.StatusPending, nil))
	require.NoError(t, s.SetStatus(ctx, id, models.StatusPending, models.StatusPublished, nil))

	return id
}

func registration(eventID int64, email string) models.NewRegistration {
	return models.NewRegistration{EventID: eventID, Email: email, FirstName: "Jane", LastName: "Doe"}
}

func TestEventCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)

	d := details(50, time.Time{})
	d.IsOnline = true
	d.OnlineURL = "https://meet.example.com/go"

	id, err := s.CreateEvent(ctx, org.UserID, d)
	require.NoError(t, err)

	event, err := s.Event(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, event.Status)
	assert.Equal(t, org.UserID, event.OrganizerID)
	assert.Equal(t, "GopherCon", event.Title)
	assert.True(t, event.IsOnline)
	assert.Equal(t, "https://meet.example.com/go", event.OnlineURL)
	assert.True(t, event.StartAt.Equal(d.StartAt))
	assert.True(t, event.RegistrationDeadline.IsZero())
	assert.Equal(t, 50, event.Capacity)

	d.Title = "GopherCon EU"
	d.Capacity = 80
	require.NoError(t, s.UpdateEvent(ctx, id, d))

	event, err = s.Event(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "GopherCon EU", event.Title)
	assert.Equal(t, 80, event.Capacity)

	_, err = s.Event(ctx, id+100)
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
	assert.ErrorIs(t, s.UpdateEvent(ctx, id+100, d), storage.ErrEventNotFound)
}

func TestListEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	other := createUser(t, s, "other", models.RoleOrganizer)

	draftID, err := s.CreateEvent(ctx, org.UserID, details(0, time.Time{}))
	require.NoError(t, err)

	pendingID, err := s.CreateEvent(ctx, other.UserID, details(0, time.Time{}))
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, pendingID, models.StatusDraft, models.StatusPending, nil))

	publishedIDs := make([]int64, 0, 3)
	for i := 0; i < 3; i++ {
		d := details(0, time.Time{})
		d.StartAt = d.StartAt.Add(time.Duration(3-i) * time.Hour)
		publishedIDs = append(publishedIDs, publishedEvent(t, s, org, d))
	}

	upcoming, err := s.ListEvents(ctx, models.EventFilter{Scope: models.ScopeUpcoming, Now: time.Now()})
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	assert.Equal(t, publishedIDs[2], upcoming[0].ID)
	assert.Equal(t, publishedIDs[0], upcoming[2].ID)

	page, err := s.ListEvents(ctx, models.EventFilter{Scope: models.ScopeUpcoming, Now: time.Now(), Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, publishedIDs[0], page[0].ID)

	review, err := s.ListEvents(ctx, models.EventFilter{Scope: models.ScopeReview})
	require.NoError(t, err)
	assert.Len(t, review, 4)
	for _, e := range review {
		assert.NotEqual(t, draftID, e.ID)
	}

	mine, err := s.ListEvents(ctx, models.EventFilter{Scope: models.ScopeOrganizer, OrganizerID: other.UserID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, pendingID, mine[0].ID)

	_, err = s.ListEvents(ctx, models.EventFilter{Scope: "everything"})
	assert.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	eventID := publishedEvent(t, s, org, details(0, time.Time{}))

	_, err := s.Register(ctx, registration(eventID, "jane@example.com"))
	require.NoError(t, err)

	_, err = s.Register(ctx, registration(eventID, "  JANE@example.com "))
	assert.ErrorIs(t, err, storage.ErrDuplicateRegistration)

	regs, err := s.Registrations(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "jane@example.com", regs[0].Email)
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	eventID := publishedEvent(t, s, org, details(0, time.Time{}))

	const workers = 20

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.Register(ctx, registration(eventID, "race@example.com"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, storage.ErrDuplicateRegistration):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, duplicates)

	regs, err := s.Registrations(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestRegisterGate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)

	t.Run("not published", func(t *testing.T) {
		id, err := s.CreateEvent(ctx, org.UserID, details(0, time.Time{}))
		require.NoError(t, err)

		_, err = s.Register(ctx, registration(id, "a@example.com"))
		assert.ErrorIs(t, err, lifecycle.ErrNotPublished)
	})

	t.Run("deadline passed", func(t *testing.T) {
		id := publishedEvent(t, s, org, details(0, time.Now().Add(-time.Hour)))

		_, err := s.Register(ctx, registration(id, "a@example.com"))
		assert.ErrorIs(t, err, lifecycle.ErrDeadlinePassed)
	})

	t.Run("capacity", func(t *testing.T) {
		id := publishedEvent(t, s, org, details(2, time.Time{}))

		_, err := s.Register(ctx, registration(id, "a@example.com"))
		require.NoError(t, err)
		_, err = s.Register(ctx, registration(id, "b@example.com"))
		require.NoError(t, err)

		_, err = s.Register(ctx, registration(id, "c@example.com"))
		assert.ErrorIs(t, err, lifecycle.ErrCapacityExceeded)

		event, err := s.Event(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 2, event.RegisteredCount)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := s.Register(ctx, registration(9999, "a@example.com"))
		assert.ErrorIs(t, err, storage.ErrEventNotFound)
	})
}

func TestRegistrationValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	eventID := publishedEvent(t, s, org, details(0, time.Time{}))
	otherID := publishedEvent(t, s, org, details(0, time.Time{}))

	next, err := s.NextFieldOrder(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	maxLen := 40
	minVal := 1.0
	inputs := make([]models.FormField, 0, len(models.FieldTypes))
	for i, ft := range models.FieldTypes {
		f := models.FormField{EventID: eventID, Label: string(ft), Type: ft, Order: i}
		if ft.NeedsChoices() {
			f.Choices = []string{"a", "b", "c"}
		}
		if ft == models.FieldText {
			f.MaxLength = &maxLen
			f.Placeholder = "Acme"
		}
		if ft == models.FieldNumber {
			f.MinValue = &minVal
		}
		inputs = append(inputs, f)
	}

	fields, err := s.AddFields(ctx, inputs)
	require.NoError(t, err)
	require.Len(t, fields, len(models.FieldTypes))

	next, err = s.NextFieldOrder(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, len(models.FieldTypes), next)

	stored, err := s.Fields(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, stored, len(models.FieldTypes))
	assert.Equal(t, []string{"a", "b", "c"}, stored[7].Choices)
	assert.Equal(t, 40, *stored[0].MaxLength)
	assert.Equal(t, "Acme", stored[0].Placeholder)
	assert.Equal(t, 1.0, *stored[4].MinValue)
	assert.Nil(t, stored[4].MaxValue)

	byType := make(map[models.FieldType]int64, len(fields))
	for _, f := range fields {
		byType[f.Type] = f.ID
	}

	arrival := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	values := map[models.FieldType]models.Value{
		models.FieldText:     models.TextValue{Text: "Acme"},
		models.FieldTextarea: models.TextValue{Text: "line one\nline two"},
		models.FieldEmail:    models.TextValue{Text: "work@acme.io"},
		models.FieldPhone:    nil,
		models.FieldNumber:   models.NumberValue{Number: 42.5},
		models.FieldDate:     models.DateValue{Date: time.Date(1994, 5, 17, 0, 0, 0, 0, time.UTC)},
		models.FieldDateTime: models.DateTimeValue{Time: arrival},
		models.FieldSelect:   models.TextValue{Text: "b"},
		models.FieldRadio:    models.TextValue{Text: "c"},
		models.FieldCheckbox: models.ChoicesValue{Choices: []string{"a", "c"}},
		models.FieldBoolean:  models.BoolValue{Bool: true},
		models.FieldFile:     models.FileValue{Path: "uploads/x.pdf", Name: "cv.pdf", Size: 1024},
	}

	reg := registration(eventID, "jane@example.com")
	for _, ft := range models.FieldTypes {
		reg.Answers = append(reg.Answers, models.Answer{FieldID: byType[ft], Value: values[ft]})
	}

	_, err = s.Register(ctx, reg)
	require.NoError(t, err)

	regs, err := s.Registrations(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	require.Len(t, regs[0].Answers, len(models.FieldTypes))

	for _, a := range regs[0].Answers {
		want := values[a.Type]
		assert.Equal(t, string(a.Type), a.Label)

		switch v := a.Value.(type) {
		case models.DateTimeValue:
			assert.True(t, v.Time.Equal(arrival), "datetime %s", v.Time)
		case models.DateValue:
			assert.Equal(t, "1994-05-17", v.Date.Format(models.DateLayout))
		default:
			assert.Equal(t, want, a.Value, "field type %s", a.Type)
		}
	}

	t.Run("kind mismatch", func(t *testing.T) {
		bad := registration(eventID, "mismatch@example.com")
		bad.Answers = []models.Answer{{FieldID: byType[models.FieldNumber], Value: models.TextValue{Text: "42"}}}

		_, err := s.Register(ctx, bad)
		assert.ErrorIs(t, err, storage.ErrValueKindMismatch)
	})

	t.Run("field of another event", func(t *testing.T) {
		bad := registration(otherID, "foreign@example.com")
		bad.Answers = []models.Answer{{FieldID: byType[models.FieldText], Value: models.TextValue{Text: "x"}}}

		_, err := s.Register(ctx, bad)
		assert.ErrorIs(t, err, storage.ErrFieldNotFound)

		regs, err := s.Registrations(ctx, otherID)
		require.NoError(t, err)
		assert.Empty(t, regs)
	})

	regs, err = s.Registrations(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestRegistrationValuesSingleSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "events.db")
	s, err := sqlite.InitDB(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	insert := `INSERT INTO registration_values (registration_id, field_id, value_kind, text_value, number_value)
		VALUES (?, ?, ?, ?, ?)`

	testCases := []struct {
		name    string
		fieldID int64
		kind    string
		text    any
		number  any
		wantErr bool
	}{
		{name: "Text slot", fieldID: 1, kind: "text", text: "Acme"},
		{name: "Empty optional value", fieldID: 2, kind: "number"},
		{name: "Two slots", fieldID: 3, kind: "text", text: "Acme", number: 2.5, wantErr: true},
		{name: "Slot of another kind", fieldID: 4, kind: "boolean", text: "yes", wantErr: true},
		{name: "Unknown kind", fieldID: 5, kind: "color", wantErr: true},
	}

	for _, tc := range testCases {
		_, err := db.ExecContext(ctx, insert, 1, tc.fieldID, tc.kind, tc.text, tc.number)
		if tc.wantErr {
			assert.Error(t, err, tc.name)
			continue
		}
		assert.NoError(t, err, tc.name)
	}
}

func TestBudget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	eventID, err := s.CreateEvent(ctx, org.UserID, details(0, time.Time{}))
	require.NoError(t, err)

	empty, err := s.Budget(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.Total)
	assert.Empty(t, empty.Items)

	items := []models.BudgetItem{
		{Category: models.BudgetVenue, Description: "Hall", Amount: 10.00},
		{Category: models.BudgetCatering, Description: "Coffee", Amount: 20.50},
		{Category: models.BudgetCatering, Description: "Cookies", Amount: 5.25},
	}

	var coffeeID int64
	for _, item := range items {
		stored, err := s.AddBudgetItem(ctx, eventID, item)
		require.NoError(t, err)
		assert.NotZero(t, stored.ID)
		if item.Description == "Coffee" {
			coffeeID = stored.ID
		}
	}

	budget, err := s.Budget(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 35.75, budget.Total)
	assert.Len(t, budget.Items, 3)
	assert.Equal(t, 10.00, budget.Subtotals[models.BudgetVenue])
	assert.Equal(t, 25.75, budget.Subtotals[models.BudgetCatering])

	require.NoError(t, s.DeleteBudgetItem(ctx, eventID, coffeeID))

	budget, err = s.Budget(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 15.25, budget.Total)
	assert.Len(t, budget.Items, 2)

	assert.ErrorIs(t, s.DeleteBudgetItem(ctx, eventID, coffeeID), storage.ErrBudgetItemNotFound)
}

func TestBudgetConcurrentFirstItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	eventID, err := s.CreateEvent(ctx, org.UserID, details(0, time.Time{}))
	require.NoError(t, err)

	const n = 8

	var wg sync.WaitGroup
	errs := make(chan error, n)
	budgetIDs := make(chan int64, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := s.AddBudgetItem(ctx, eventID, models.BudgetItem{
				Category: models.BudgetDecor, Description: "Balloons", Amount: 1.5,
			})
			if err != nil {
				errs <- err
				return
			}
			budgetIDs <- item.BudgetID
		}()
	}
	wg.Wait()
	close(errs)
	close(budgetIDs)

	for err := range errs {
		assert.NoError(t, err)
	}

	var first int64
	for id := range budgetIDs {
		if first == 0 {
			first = id
		}
		assert.Equal(t, first, id)
	}

	budget, err := s.Budget(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, budget.Items, n)
	assert.Equal(t, 12.0, budget.Total)
}

func TestRejectedEventFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	admin := createUser(t, s, "admin", models.RoleAdmin)

	eventID, err := s.CreateEvent(ctx, org.UserID, details(0, time.Time{}))
	require.NoError(t, err)

	transition := func(actor models.Actor, action lifecycle.Action, reason string) error {
		event, err := s.Event(ctx, eventID)
		require.NoError(t, err)

		to, err := lifecycle.Apply(actor, event, action, reason, time.Now())
		if err != nil {
			return err
		}

		var rejection *models.Rejection
		if action == lifecycle.ActionReject {
			rejection = &models.Rejection{AdminID: actor.UserID, Message: reason}
		}
		return s.SetStatus(ctx, eventID, event.Status, to, rejection)
	}

	require.NoError(t, transition(org, lifecycle.ActionSubmit, ""))
	assert.ErrorIs(t, transition(org, lifecycle.ActionApprove, ""), authz.ErrForbidden)
	require.NoError(t, transition(admin, lifecycle.ActionReject, "insufficient detail"))

	event, err := s.Event(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, event.Status)

	rejections, err := s.Rejections(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, rejections, 1)
	assert.Equal(t, eventID, rejections[0].EventID)
	assert.Equal(t, admin.UserID, rejections[0].AdminID)
	assert.Equal(t, "insufficient detail", rejections[0].Message)

	assert.ErrorIs(t, transition(admin, lifecycle.ActionApprove, ""), lifecycle.ErrInvalidTransition)

	_, err = s.Register(ctx, registration(eventID, "late@example.com"))
	assert.ErrorIs(t, err, lifecycle.ErrNotPublished)
}

func TestSetStatusConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	eventID, err := s.CreateEvent(ctx, org.UserID, details(0, time.Time{}))
	require.NoError(t, err)

	err = s.SetStatus(ctx, eventID, models.StatusPending, models.StatusPublished, nil)
	assert.ErrorIs(t, err, storage.ErrStatusChanged)

	err = s.SetStatus(ctx, eventID+1, models.StatusDraft, models.StatusPending, nil)
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	createUser(t, s, "alice", models.RoleOrganizer)
	createUser(t, s, "bob", models.RoleAttendee)
	createUser(t, s, "carol", models.RoleOrganizer)

	_, err := s.CreateUser(ctx, models.User{Username: "alice", Email: "x@example.com", Role: models.RoleAdmin, PasswordHash: "h"})
	assert.ErrorIs(t, err, storage.ErrUserExists)

	u, err := s.UserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)
	assert.Equal(t, models.RoleAttendee, u.Role)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = s.UserByUsername(ctx, "dave")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	byID, err := s.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Username)

	_, err = s.User(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	organizers, err := s.ListUsers(ctx, models.UserFilter{Role: models.RoleOrganizer})
	require.NoError(t, err)
	assert.Len(t, organizers, 2)

	byEmail, err := s.ListUsers(ctx, models.UserFilter{Email: "CAR"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "carol", byEmail[0].Username)

	thisMonth, err := s.ListUsers(ctx, models.UserFilter{Month: int(time.Now().UTC().Month())})
	require.NoError(t, err)
	assert.Len(t, thisMonth, 3)

	otherMonth := int(time.Now().UTC().Month())%12 + 1
	none, err := s.ListUsers(ctx, models.UserFilter{Month: otherMonth})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAnalytics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStorage(t)
	org := createUser(t, s, "org", models.RoleOrganizer)
	eventID := publishedEvent(t, s, org, details(0, time.Time{}))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.IncrementViews(ctx, eventID))
	}
	for i := 0; i < 2; i++ {
		_, err := s.Register(ctx, registration(eventID, fmt.Sprintf("user%d@example.com", i)))
		require.NoError(t, err)
	}

	a, err := s.Analytics(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 3, a.TotalViews)
	assert.Equal(t, 2, a.TotalRegistrations)
	assert.Equal(t, 66.7, a.ConversionRate)

	total := 0
	for _, d := range a.RegistrationsOverTime {
		total += d.Count
	}
	assert.Equal(t, 2, total)

	assert.ErrorIs(t, s.IncrementViews(ctx, eventID+100), storage.ErrEventNotFound)
}
