package models

import (
	"math"
	"time"
)

type BudgetCategory string

const (
	BudgetVenue    BudgetCategory = "venue"
	BudgetCatering BudgetCategory = "catering"
	BudgetDecor    BudgetCategory = "decor"
	BudgetProgram  BudgetCategory = "program"
	BudgetOther    BudgetCategory = "other"
)

type Budget struct {
	ID        int64                      `json:"id"`
	EventID   int64                      `json:"event_id"`
	Total     float64                    `json:"total"`
	Subtotals map[BudgetCategory]float64 `json:"subtotals"`
	Items     []BudgetItem               `json:"items"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

type BudgetItem struct {
	ID          int64          `json:"id"`
	BudgetID    int64          `json:"budget_id"`
	Category    BudgetCategory `json:"category"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Amounts are persisted as integer cents.

func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
