package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventManager/internal/models"
	"eventManager/internal/storage"
)

func (s *Storage) CreateUser(ctx context.Context, u models.User) (int64, error) {
	const op = "storage.sqlstore.CreateUser"

	query := s.rebind(`
		INSERT INTO users (username, email, first_name, last_name, contact_number, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		u.Username,
		strings.ToLower(strings.TrimSpace(u.Email)),
		u.FirstName,
		u.LastName,
		nullString(u.ContactNumber),
		string(u.Role),
		u.PasswordHash,
		s.now(),
	).Scan(&id)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return 0, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	return id, nil
}

const userColumns = `id, username, email, first_name, last_name, contact_number, role, password_hash, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u       models.User
		contact sql.NullString
	)

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &contact, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.ContactNumber = contact.String

	return &u, nil
}

func (s *Storage) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.sqlstore.UserByUsername"

	u, err := scanUser(s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Storage) User(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.sqlstore.User"

	u, err := scanUser(s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// ListUsers returns users matching the filter, newest first. The month filter
// is applied to the UTC registration date.
func (s *Storage) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	const op = "storage.sqlstore.ListUsers"

	var (
		where []string
		args  []any
	)

	if email := strings.TrimSpace(filter.Email); email != "" {
		where = append(where, "email LIKE ?")
		args = append(args, "%"+strings.ToLower(email)+"%")
	}
	if filter.Role != "" {
		where = append(where, "role = ?")
		args = append(args, string(filter.Role))
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan user: %w", op, err)
		}
		if filter.Month != 0 && int(u.CreatedAt.UTC().Month()) != filter.Month {
			continue
		}
		users = append(users, *u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}
