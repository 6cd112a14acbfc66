package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type MembershipRepo struct {
	pool *pgxpool.Pool
}

func NewMembershipRepo(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

func buildMembershipQuery(f models.MembershipFilter) (string, []interface{}) {
	b := newSelect(`SELECT id, group_id, user_id, role, joined_at FROM group_members`)

	if f.UserID != nil {
		b.where("user_id = ?", *f.UserID)
	}
	if len(f.GroupIDs) > 0 {
		b.where("group_id = ANY(?::uuid[])", uuidStrings(f.GroupIDs))
	}

	return b.order("joined_at", f.Order).withLimit(f.Limit).build()
}

func (r *MembershipRepo) FetchMemberships(ctx context.Context, f models.MembershipFilter) ([]models.GroupMembership, error) {
	query, args := buildMembershipQuery(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]models.GroupMembership, 0)
	for rows.Next() {
		var m models.GroupMembership
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}
