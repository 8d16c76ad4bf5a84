package models

import "math"

type Analytics struct {
	EventID               int64        `json:"event_id"`
	TotalViews            int          `json:"total_views"`
	TotalRegistrations    int          `json:"total_registrations"`
	ConversionRate        float64      `json:"conversion_rate"`
	RegistrationsOverTime []DailyCount `json:"registrations_over_time"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ConversionRate is registrations per hundred views, rounded to one decimal.
func ConversionRate(registrations, views int) float64 {
	if views <= 0 {
		return 0
	}
	return math.Round(float64(registrations)/float64(views)*1000) / 10
}
