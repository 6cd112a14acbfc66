package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type GroupRepo struct {
	pool *pgxpool.Pool
}

func NewGroupRepo(pool *pgxpool.Pool) *GroupRepo {
	return &GroupRepo{pool: pool}
}

// FetchGroups returns the groups among ids that exist, in no particular order.
func (r *GroupRepo) FetchGroups(ctx context.Context, ids []uuid.UUID) ([]models.Group, error) {
	groups := make([]models.Group, 0, len(ids))
	if len(ids) == 0 {
		return groups, nil
	}

	rows, err := r.pool.Query(ctx, "SELECT id, name FROM groups WHERE id = ANY($1::uuid[])", uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}
