package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/phonebook-service/internal/domain"
)

// PhoneNumberRepository manages phone numbers owned by users.
type PhoneNumberRepository interface {
	Create(ctx context.Context, number *domain.PhoneNumber) error
	ListByUser(ctx context.Context, userID string) ([]domain.PhoneNumber, error)
}

type phoneNumberRepository struct {
	pool *pgxpool.Pool
}

// NewPhoneNumberRepository returns a Postgres-backed implementation.
func NewPhoneNumberRepository(pool *pgxpool.Pool) PhoneNumberRepository {
	return &phoneNumberRepository{pool: pool}
}

func (r *phoneNumberRepository) Create(ctx context.Context, number *domain.PhoneNumber) error {
	const query = `
        INSERT INTO phonenumbers (number, user_id)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		number.Number,
		number.UserID,
	).Scan(&number.ID, &number.CreatedAt, &number.UpdatedAt)
	return mapPgError(err)
}

func (r *phoneNumberRepository) ListByUser(ctx context.Context, userID string) ([]domain.PhoneNumber, error) {
	const query = `
        SELECT id, number, user_id, created_at, updated_at
        FROM phonenumbers WHERE user_id=$1
        ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	numbers := make([]domain.PhoneNumber, 0)
	for rows.Next() {
		var n domain.PhoneNumber
		if err := rows.Scan(&n.ID, &n.Number, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, mapPgError(rows.Err())
}
