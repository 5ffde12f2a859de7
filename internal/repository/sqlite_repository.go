package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/spec-kit/phonebook-service/internal/domain"
)

// SQLite stores timestamps as unix milliseconds.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return ErrDuplicate
		}
	}
	return err
}

type sqliteUserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteUserRepository returns a UserRepository over an open SQLite handle.
func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db, now: time.Now}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, email, password_hash, created_at, updated_at)
        VALUES (?1, ?2, ?3, ?4, ?4)`

	id := uuid.NewString()
	now := fromMillis(toMillis(r.now()))
	if _, err := r.db.ExecContext(ctx, query, id, user.Email, user.PasswordHash, toMillis(now)); err != nil {
		return mapSQLiteError(err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *sqliteUserRepository) FindBySubject(ctx context.Context, subject string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, created_at, updated_at
        FROM users WHERE id=?1`

	return r.scanOne(ctx, query, subject)
}

func (r *sqliteUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, created_at, updated_at
        FROM users WHERE email=?1`

	return r.scanOne(ctx, query, email)
}

func (r *sqliteUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=?1`, id)
	if err != nil {
		return mapSQLiteError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteUserRepository) scanOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var (
		user               domain.User
		createdAt, updated int64
	)
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&createdAt,
		&updated,
	); err != nil {
		return nil, mapSQLiteError(err)
	}
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updated)
	return &user, nil
}

type sqlitePhoneNumberRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLitePhoneNumberRepository returns a PhoneNumberRepository over an open SQLite handle.
func NewSQLitePhoneNumberRepository(db *sql.DB) PhoneNumberRepository {
	return &sqlitePhoneNumberRepository{db: db, now: time.Now}
}

func (r *sqlitePhoneNumberRepository) Create(ctx context.Context, number *domain.PhoneNumber) error {
	const query = `
        INSERT INTO phonenumbers (id, number, user_id, created_at, updated_at)
        VALUES (?1, ?2, ?3, ?4, ?4)`

	id := uuid.NewString()
	now := fromMillis(toMillis(r.now()))
	if _, err := r.db.ExecContext(ctx, query, id, number.Number, number.UserID, toMillis(now)); err != nil {
		return mapSQLiteError(err)
	}
	number.ID = id
	number.CreatedAt = now
	number.UpdatedAt = now
	return nil
}

func (r *sqlitePhoneNumberRepository) ListByUser(ctx context.Context, userID string) ([]domain.PhoneNumber, error) {
	const query = `
        SELECT id, number, user_id, created_at, updated_at
        FROM phonenumbers WHERE user_id=?1
        ORDER BY created_at ASC, rowid ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	numbers := make([]domain.PhoneNumber, 0)
	for rows.Next() {
		var (
			n                  domain.PhoneNumber
			createdAt, updated int64
		)
		if err := rows.Scan(&n.ID, &n.Number, &n.UserID, &createdAt, &updated); err != nil {
			return nil, err
		}
		n.CreatedAt = fromMillis(createdAt)
		n.UpdatedAt = fromMillis(updated)
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}
