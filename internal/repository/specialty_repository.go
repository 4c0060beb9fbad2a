package repository

import (
	"context"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// SpecialtyRepository encapsulates specialty persistence.
type SpecialtyRepository interface {
	Create(ctx context.Context, specialty *domain.Specialty) error
	List(ctx context.Context) ([]domain.Specialty, error)
}

type specialtyRepository struct {
	q Querier
}

// NewSpecialtyRepository instantiates repository.
func NewSpecialtyRepository(q Querier) SpecialtyRepository {
	return &specialtyRepository{q: q}
}

func (r *specialtyRepository) Create(ctx context.Context, specialty *domain.Specialty) error {
	const query = `
        INSERT INTO specialties (name, type)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query, specialty.Name, specialty.Type).
		Scan(&specialty.ID, &specialty.CreatedAt, &specialty.UpdatedAt)
}

func (r *specialtyRepository) List(ctx context.Context) ([]domain.Specialty, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, type, created_at, updated_at FROM specialties ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Specialty
	for rows.Next() {
		var s domain.Specialty
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
