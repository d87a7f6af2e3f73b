package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/land-registry/internal/domain"
)

// PropertyFilter captures search parameters against the mirror.
type PropertyFilter struct {
	State      *domain.PropertyState
	Owner      *string
	SurveyID   *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// PropertyMirrorRepository persists the read-side projection of ledger
// properties. All writes are idempotent upserts keyed by property id so
// at-least-once event delivery is safe to replay.
type PropertyMirrorRepository interface {
	Upsert(ctx context.Context, property *domain.Property) error
	UpdateState(ctx context.Context, id uint64, state domain.PropertyState) error
	UpdateListing(ctx context.Context, id uint64, state domain.PropertyState, price uint64) error
	UpdateOwner(ctx context.Context, id uint64, owner string, state domain.PropertyState) error
	UpdatePendingRequester(ctx context.Context, id uint64, requester *string) error
	GetByID(ctx context.Context, id uint64) (*domain.Property, error)
	ListWithFilter(ctx context.Context, filter PropertyFilter) ([]domain.Property, error)
}

type propertyMirrorRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyMirrorRepository instantiates the repository.
func NewPropertyMirrorRepository(pool *pgxpool.Pool) PropertyMirrorRepository {
	return &propertyMirrorRepository{pool: pool}
}

func (r *propertyMirrorRepository) Upsert(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO property_mirror (id, survey_id, document_hash, location, area, price, owner_address, state, registered_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (id) DO UPDATE SET
            survey_id=EXCLUDED.survey_id,
            document_hash=EXCLUDED.document_hash,
            location=EXCLUDED.location,
            area=EXCLUDED.area,
            price=EXCLUDED.price,
            owner_address=EXCLUDED.owner_address,
            state=EXCLUDED.state,
            updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query,
		property.ID,
		property.SurveyID,
		property.DocumentHash,
		property.Location,
		property.Area,
		property.Price,
		property.Owner,
		property.State,
		property.RegisteredAt,
		property.UpdatedAt,
	)
	return err
}

func (r *propertyMirrorRepository) UpdateState(ctx context.Context, id uint64, state domain.PropertyState) error {
	const query = `UPDATE property_mirror SET state=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, state, id)
	return err
}

func (r *propertyMirrorRepository) UpdateListing(ctx context.Context, id uint64, state domain.PropertyState, price uint64) error {
	const query = `UPDATE property_mirror SET state=$1, price=$2, updated_at=NOW() WHERE id=$3`
	_, err := r.pool.Exec(ctx, query, state, price, id)
	return err
}

func (r *propertyMirrorRepository) UpdateOwner(ctx context.Context, id uint64, owner string, state domain.PropertyState) error {
	const query = `UPDATE property_mirror SET owner_address=$1, state=$2, pending_requester=NULL, updated_at=NOW() WHERE id=$3`
	_, err := r.pool.Exec(ctx, query, owner, state, id)
	return err
}

func (r *propertyMirrorRepository) UpdatePendingRequester(ctx context.Context, id uint64, requester *string) error {
	const query = `UPDATE property_mirror SET pending_requester=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, requester, id)
	return err
}

func (r *propertyMirrorRepository) GetByID(ctx context.Context, id uint64) (*domain.Property, error) {
	const query = `
        SELECT id, survey_id, document_hash, location, area, price, owner_address, state, pending_requester, registered_at, updated_at
        FROM property_mirror WHERE id=$1`

	var property domain.Property
	var pendingRequester *string
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&property.ID,
		&property.SurveyID,
		&property.DocumentHash,
		&property.Location,
		&property.Area,
		&property.Price,
		&property.Owner,
		&property.State,
		&pendingRequester,
		&property.RegisteredAt,
		&property.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if pendingRequester != nil {
		property.PendingTransfer = &domain.TransferRequest{Requester: *pendingRequester}
	}
	return &property, nil
}

func (r *propertyMirrorRepository) ListWithFilter(ctx context.Context, filter PropertyFilter) ([]domain.Property, error) {
	base := `SELECT id, survey_id, document_hash, location, area, price, owner_address, state, pending_requester, registered_at, updated_at
             FROM property_mirror`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.State != nil {
		args = append(args, *filter.State)
		clauses = append(clauses, fmt.Sprintf("state=$%d", len(args)))
	}
	if filter.Owner != nil {
		args = append(args, *filter.Owner)
		clauses = append(clauses, fmt.Sprintf("owner_address=$%d", len(args)))
	}
	if filter.SurveyID != nil {
		args = append(args, *filter.SurveyID)
		clauses = append(clauses, fmt.Sprintf("survey_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(location) LIKE %s OR LOWER(survey_id) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY id ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

func scanProperties(rows pgx.Rows) ([]domain.Property, error) {
	var result []domain.Property
	for rows.Next() {
		var property domain.Property
		var pendingRequester *string
		if err := rows.Scan(
			&property.ID,
			&property.SurveyID,
			&property.DocumentHash,
			&property.Location,
			&property.Area,
			&property.Price,
			&property.Owner,
			&property.State,
			&pendingRequester,
			&property.RegisteredAt,
			&property.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if pendingRequester != nil {
			property.PendingTransfer = &domain.TransferRequest{Requester: *pendingRequester}
		}
		result = append(result, property)
	}
	return result, rows.Err()
}
