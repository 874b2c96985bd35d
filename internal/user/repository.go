package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Repository is a database-backed repository for users and follows.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

const userColumns = "id, email, username, first_name, last_name, password_hash, avatar"

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Avatar)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and returns its ID.
func (r *Repository) Create(ctx context.Context, u *User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, username, first_name, last_name, password_hash)
		 VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrExists
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted user id: %w", err)
	}
	return id, nil
}

// Get retrieves a user by ID, or nil when no such user exists.
func (r *Repository) Get(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email, or nil when no such user exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// List returns one page of users ordered by username plus the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY username LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetAvatar updates the stored avatar path. Empty clears it.
func (r *Repository) SetAvatar(ctx context.Context, id int64, path string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET avatar = ? WHERE id = ?", path, id); err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

// Follow records that userID follows followingID.
func (r *Repository) Follow(ctx context.Context, userID, followingID int64) error {
	if userID == followingID {
		return ErrSelfFollow
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO follows (user_id, following_id) VALUES (?, ?)", userID, followingID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyFollowing
		}
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

// Unfollow removes a follow relationship.
func (r *Repository) Unfollow(ctx context.Context, userID, followingID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM follows WHERE user_id = ? AND following_id = ?", userID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFollowing
	}
	return nil
}

// IsFollowing reports whether userID follows followingID.
func (r *Repository) IsFollowing(ctx context.Context, userID, followingID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE user_id = ? AND following_id = ?",
		userID, followingID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return n > 0, nil
}

// Subscriptions returns one page of the users that userID follows, ordered
// by username, plus the total count.
func (r *Repository) Subscriptions(ctx context.Context, userID int64, limit, offset int) ([]User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE user_id = ?", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.avatar
		 FROM users u
		 JOIN follows f ON f.following_id = u.id
		 WHERE f.user_id = ?
		 ORDER BY u.username
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func collectUsers(rows *sql.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

// modernc.org/sqlite reports constraint failures by message, there is no
// typed error to match on.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
