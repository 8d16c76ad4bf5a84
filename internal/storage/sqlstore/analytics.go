package sqlstore

import (
	"context"
	"fmt"
	"time"

	"eventManager/internal/models"
)

// Analytics summarizes views and registrations of an event. Registrations
// are bucketed by UTC day.
func (s *Storage) Analytics(ctx context.Context, eventID int64) (*models.Analytics, error) {
	const op = "storage.sqlstore.Analytics"

	event, err := s.loadEvent(ctx, s.db, eventID, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT registered_at FROM registrations WHERE event_id = ? ORDER BY registered_at ASC`), eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	daily := make([]models.DailyCount, 0)
	for rows.Next() {
		var at time.Time
		if err = rows.Scan(&at); err != nil {
			return nil, fmt.Errorf("%s: failed to scan registration: %w", op, err)
		}

		day := at.UTC().Format(models.DateLayout)
		if n := len(daily); n > 0 && daily[n-1].Date == day {
			daily[n-1].Count++
			continue
		}
		daily = append(daily, models.DailyCount{Date: day, Count: 1})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Analytics{
		EventID:               event.ID,
		TotalViews:            event.ViewsCount,
		TotalRegistrations:    event.RegisteredCount,
		ConversionRate:        models.ConversionRate(event.RegisteredCount, event.ViewsCount),
		RegistrationsOverTime: daily,
	}, nil
}
