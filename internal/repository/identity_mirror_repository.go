package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/land-registry/internal/domain"
)

// IdentityMirrorRepository persists the read-side projection of registered
// identities. Upserts are keyed by address; replays overwrite with the same
// values.
type IdentityMirrorRepository interface {
	Upsert(ctx context.Context, address string, role domain.Role, registeredAt time.Time) error
	UpdateRole(ctx context.Context, address string, role domain.Role) error
	GetByAddress(ctx context.Context, address string) (*domain.Identity, error)
	ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.Identity, error)
}

type identityMirrorRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityMirrorRepository instantiates the repository.
func NewIdentityMirrorRepository(pool *pgxpool.Pool) IdentityMirrorRepository {
	return &identityMirrorRepository{pool: pool}
}

func (r *identityMirrorRepository) Upsert(ctx context.Context, address string, role domain.Role, registeredAt time.Time) error {
	const query = `
        INSERT INTO identity_mirror (address, role, registered_at, updated_at)
        VALUES ($1,$2,$3,NOW())
        ON CONFLICT (address) DO UPDATE SET role=EXCLUDED.role, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, address, role, registeredAt)
	return err
}

func (r *identityMirrorRepository) UpdateRole(ctx context.Context, address string, role domain.Role) error {
	const query = `UPDATE identity_mirror SET role=$1, updated_at=NOW() WHERE address=$2`
	_, err := r.pool.Exec(ctx, query, role, address)
	return err
}

func (r *identityMirrorRepository) GetByAddress(ctx context.Context, address string) (*domain.Identity, error) {
	const query = `SELECT address, role, registered_at, updated_at FROM identity_mirror WHERE address=$1`

	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, address).Scan(
		&identity.Address,
		&identity.Role,
		&identity.RegisteredAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	identity.Registered = true
	return &identity, nil
}

func (r *identityMirrorRepository) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.Identity, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT address, role, registered_at, updated_at FROM identity_mirror
        WHERE role=$1 ORDER BY registered_at ASC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, role, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Identity
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(&identity.Address, &identity.Role, &identity.RegisteredAt, &identity.UpdatedAt); err != nil {
			return nil, err
		}
		identity.Registered = true
		result = append(result, identity)
	}
	return result, rows.Err()
}
