package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"greencycle/internal/domain"
)

// CenterRepositoryPG implements domain.CenterRepository backed by PostgreSQL.
type CenterRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCenterRepository creates a new CenterRepositoryPG.
func NewCenterRepository(pool *pgxpool.Pool) *CenterRepositoryPG {
	return &CenterRepositoryPG{pool: pool}
}

// List returns every collection center, alphabetically.
func (r *CenterRepositoryPG) List(ctx context.Context) ([]domain.Center, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, address, latitude, longitude, phone
FROM centers
ORDER BY name;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var centers []domain.Center
	for rows.Next() {
		var c domain.Center
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude, &c.Phone); err != nil {
			return nil, err
		}
		centers = append(centers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return centers, nil
}

// GetByID fetches a single center.
func (r *CenterRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Center, error) {
	var c domain.Center
	err := r.pool.QueryRow(ctx, `
SELECT id, name, address, latitude, longitude, phone
FROM centers
WHERE id = $1;
`, id).Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude, &c.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ domain.CenterRepository = (*CenterRepositoryPG)(nil)
