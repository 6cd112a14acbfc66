package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type StudySessionRepo struct {
	pool *pgxpool.Pool
}

func NewStudySessionRepo(pool *pgxpool.Pool) *StudySessionRepo {
	return &StudySessionRepo{pool: pool}
}

func buildSessionQuery(f models.SessionFilter) (string, []interface{}) {
	b := newSelect(`SELECT id, user_id, group_id, subject, minutes, description, created_at FROM study_logs`)

	if f.UserID != nil {
		b.where("user_id = ?", *f.UserID)
	}
	if f.GroupID != nil {
		b.where("group_id = ?", *f.GroupID)
	}
	if len(f.GroupIDs) > 0 {
		b.where("group_id = ANY(?::uuid[])", uuidStrings(f.GroupIDs))
	}
	if f.Since != nil {
		b.where("created_at >= ?", *f.Since)
	}

	return b.order("created_at", f.Order).withLimit(f.Limit).build()
}

func (r *StudySessionRepo) FetchSessions(ctx context.Context, f models.SessionFilter) ([]models.StudySession, error) {
	query, args := buildSessionQuery(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.StudySession, 0)
	for rows.Next() {
		var s models.StudySession
		if err := rows.Scan(&s.ID, &s.UserID, &s.GroupID, &s.Subject, &s.Minutes, &s.Description, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func (r *StudySessionRepo) Create(ctx context.Context, s *models.StudySession) error {
	query := `
		INSERT INTO study_logs (id, user_id, group_id, subject, minutes, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	s.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.GroupID, s.Subject, s.Minutes, s.Description,
	).Scan(&s.CreatedAt)
}

// ListActiveUserIDs returns users who logged at least one session since the given time.
func (r *StudySessionRepo) ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT user_id
		FROM study_logs
		WHERE created_at >= $1
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
