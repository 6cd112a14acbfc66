package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// FetchProfiles looks up every id in one round trip. Ids without a profile
// row are simply absent from the result.
func (r *ProfileRepo) FetchProfiles(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	rows, err := r.pool.Query(ctx, "SELECT id, name, avatar_url FROM profiles WHERE id = ANY($1::uuid[])", uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.AvatarURL); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}
