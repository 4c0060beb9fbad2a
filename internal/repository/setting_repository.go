package repository

import (
	"context"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// SettingRepository encapsulates key/value settings persistence.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	Set(ctx context.Context, setting *domain.Setting) error
	List(ctx context.Context) ([]domain.Setting, error)
}

type settingRepository struct {
	q Querier
}

// NewSettingRepository instantiates repository.
func NewSettingRepository(q Querier) SettingRepository {
	return &settingRepository{q: q}
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var s domain.Setting
	err := r.q.QueryRow(ctx,
		`SELECT id, key, value, type, description, created_at, updated_at FROM settings WHERE key=$1`,
		key).Scan(&s.ID, &s.Key, &s.Value, &s.Type, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepository) Set(ctx context.Context, setting *domain.Setting) error {
	const query = `
        INSERT INTO settings (key, value, type, description)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, type=EXCLUDED.type,
            description=EXCLUDED.description, updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		setting.Key,
		setting.Value,
		setting.Type,
		setting.Description,
	).Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt)
}

func (r *settingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, key, value, type, description, created_at, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Setting
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Type, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
