package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"postboard/internal/models"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (id, username, password_hash, age, first_name, last_name, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectUserColumns       = `SELECT id, username, password_hash, age, first_name, last_name, created_at FROM users`
	selectUserByUsernameSQL = selectUserColumns + ` WHERE username = ?`
	selectUserByIDSQL       = selectUserColumns + ` WHERE id = ?`
)

// Create inserts a new user, assigning its ID and creation time.
// A taken username yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Username, u.PasswordHash,
		nullInt(u.Age), nullString(u.FirstName), nullString(u.LastName),
		u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user by id %q: %w", id, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u         models.User
		age       sql.NullInt64
		firstName sql.NullString
		lastName  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &age, &firstName, &lastName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if firstName.Valid {
		u.FirstName = &firstName.String
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
