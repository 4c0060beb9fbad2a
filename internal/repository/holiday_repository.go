package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// HolidayRepository encapsulates holiday persistence.
type HolidayRepository interface {
	Create(ctx context.Context, holiday *domain.Holiday) error
	Update(ctx context.Context, holiday *domain.Holiday) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Holiday, error)
	ListAll(ctx context.Context) ([]domain.Holiday, error)
	// Upsert inserts the holiday unless one already exists on the same date,
	// used by the public-holiday sync job.
	Upsert(ctx context.Context, holiday *domain.Holiday) error
}

type holidayRepository struct {
	q Querier
}

// NewHolidayRepository instantiates repository.
func NewHolidayRepository(q Querier) HolidayRepository {
	return &holidayRepository{q: q}
}

const holidayColumns = `id, holiday_date, name, description, recurring, created_at, updated_at`

func (r *holidayRepository) Create(ctx context.Context, holiday *domain.Holiday) error {
	const query = `
        INSERT INTO holidays (holiday_date, name, description, recurring)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		domain.DateOnly(holiday.Date),
		holiday.Name,
		holiday.Description,
		holiday.Recurring,
	).Scan(&holiday.ID, &holiday.CreatedAt, &holiday.UpdatedAt)
}

func (r *holidayRepository) Update(ctx context.Context, holiday *domain.Holiday) error {
	const query = `
        UPDATE holidays SET holiday_date=$1, name=$2, description=$3, recurring=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.q.Exec(ctx, query,
		domain.DateOnly(holiday.Date),
		holiday.Name,
		holiday.Description,
		holiday.Recurring,
		holiday.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *holidayRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM holidays WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *holidayRepository) GetByID(ctx context.Context, id string) (*domain.Holiday, error) {
	var h domain.Holiday
	err := r.q.QueryRow(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE id=$1`, id).Scan(
		&h.ID, &h.Date, &h.Name, &h.Description, &h.Recurring, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	h.Date = domain.DateOnly(h.Date)
	return &h, nil
}

func (r *holidayRepository) ListAll(ctx context.Context) ([]domain.Holiday, error) {
	rows, err := r.q.Query(ctx, `SELECT `+holidayColumns+` FROM holidays ORDER BY holiday_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.Description, &h.Recurring, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		h.Date = domain.DateOnly(h.Date)
		result = append(result, h)
	}
	return result, rows.Err()
}

func (r *holidayRepository) Upsert(ctx context.Context, holiday *domain.Holiday) error {
	const query = `
        INSERT INTO holidays (holiday_date, name, description, recurring)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (holiday_date) DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		domain.DateOnly(holiday.Date),
		holiday.Name,
		holiday.Description,
		holiday.Recurring,
	)
	return err
}
