package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventManager/internal/models"
	"eventManager/internal/storage"
)

// AddBudgetItem appends an item to the event's budget, creating the budget on
// first use, and recomputes the total in the same transaction.
func (s *Storage) AddBudgetItem(ctx context.Context, eventID int64, item models.BudgetItem) (*models.BudgetItem, error) {
	const op = "storage.sqlstore.AddBudgetItem"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	now := s.now()

	budgetID, err := s.ensureBudget(ctx, tx, eventID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = tx.QueryRowContext(ctx, s.rebind(`
		INSERT INTO budget_items (budget_id, category, description, amount_cents, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		budgetID, string(item.Category), item.Description, models.ToCents(item.Amount), now,
	).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to insert item: %w", op, err)
	}

	if err = s.recomputeTotal(ctx, tx, budgetID, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	item.BudgetID = budgetID
	item.Amount = models.FromCents(models.ToCents(item.Amount))
	item.CreatedAt = now

	return &item, nil
}

func (s *Storage) DeleteBudgetItem(ctx context.Context, eventID, itemID int64) error {
	const op = "storage.sqlstore.DeleteBudgetItem"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var budgetID int64
	err = tx.QueryRowContext(ctx, s.rebind(`
		SELECT b.id FROM budgets b
		JOIN budget_items i ON i.budget_id = b.id
		WHERE b.event_id = ? AND i.id = ?`), eventID, itemID,
	).Scan(&budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrBudgetItemNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM budget_items WHERE id = ?`), itemID); err != nil {
		return fmt.Errorf("%s: failed to delete item: %w", op, err)
	}

	if err = s.recomputeTotal(ctx, tx, budgetID, s.now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return nil
}

// Budget returns the event's budget. An event without items has an empty
// budget with a zero total.
func (s *Storage) Budget(ctx context.Context, eventID int64) (*models.Budget, error) {
	const op = "storage.sqlstore.Budget"

	budget := &models.Budget{
		EventID:   eventID,
		Subtotals: make(map[models.BudgetCategory]float64),
		Items:     make([]models.BudgetItem, 0),
	}

	var totalCents int64
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, total_cents, updated_at FROM budgets WHERE event_id = ?`), eventID,
	).Scan(&budget.ID, &totalCents, &budget.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return budget, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	budget.Total = models.FromCents(totalCents)

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, budget_id, category, description, amount_cents, created_at
		FROM budget_items
		WHERE budget_id = ?
		ORDER BY created_at ASC, id ASC`), budget.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get items: %w", op, err)
	}
	defer rows.Close()

	subtotals := make(map[models.BudgetCategory]int64)
	for rows.Next() {
		var (
			item  models.BudgetItem
			cents int64
		)
		if err = rows.Scan(&item.ID, &item.BudgetID, &item.Category, &item.Description, &cents, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan item: %w", op, err)
		}
		item.Amount = models.FromCents(cents)
		subtotals[item.Category] += cents
		budget.Items = append(budget.Items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for c, cents := range subtotals {
		budget.Subtotals[c] = models.FromCents(cents)
	}

	return budget, nil
}

// ensureBudget returns the event's budget id, creating the budget on first
// use. The row is locked for the rest of the transaction.
func (s *Storage) ensureBudget(ctx context.Context, q queryer, eventID int64, now time.Time) (int64, error) {
	_, err := q.ExecContext(ctx,
		s.rebind(`INSERT INTO budgets (event_id, total_cents, updated_at) VALUES (?, 0, ?) ON CONFLICT (event_id) DO NOTHING`),
		eventID, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create budget: %w", err)
	}

	var id int64
	err = q.QueryRowContext(ctx, s.rebind(`SELECT id FROM budgets WHERE event_id = ?`+s.dialect.LockSuffix()), eventID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get budget: %w", err)
	}

	return id, nil
}

func (s *Storage) recomputeTotal(ctx context.Context, q queryer, budgetID int64, now time.Time) error {
	_, err := q.ExecContext(ctx, s.rebind(`
		UPDATE budgets
		SET total_cents = (SELECT COALESCE(SUM(amount_cents), 0) FROM budget_items WHERE budget_id = ?),
			updated_at = ?
		WHERE id = ?`), budgetID, now, budgetID)
	if err != nil {
		return fmt.Errorf("failed to recompute total: %w", err)
	}
	return nil
}
