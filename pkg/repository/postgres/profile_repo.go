package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/profile"
)

// ProfileRepository implements profile.Repository backed by PostgreSQL (pgx).
// The analysis document lives in a JSONB column and is always replaced
// wholesale; counters and activity date have a dedicated narrow update so the
// optimize flow can commit them before generation.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) (*ProfileRepository, error) {
	r := &ProfileRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ProfileRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS profiles (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL UNIQUE REFERENCES users(id),
	target_role TEXT NOT NULL,
	experience_level TEXT NOT NULL,
	resume_text TEXT NOT NULL,
	analysis JSONB,
	daily_upload_count INT NOT NULL DEFAULT 0,
	daily_optimize_count INT NOT NULL DEFAULT 0,
	last_activity_date DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO profiles (id, user_id, target_role, experience_level, resume_text, analysis,
	daily_upload_count, daily_optimize_count, last_activity_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`, p.ID, p.UserID, p.TargetRole, p.ExperienceLevel, p.ResumeText, []byte(p.Analysis),
		p.DailyUploadCount, p.DailyOptimizeCount, p.LastActivityDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	p.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
UPDATE profiles SET
	target_role = $2,
	experience_level = $3,
	resume_text = $4,
	analysis = $5,
	daily_upload_count = $6,
	daily_optimize_count = $7,
	last_activity_date = $8,
	updated_at = $9
WHERE id = $1
`, p.ID, p.TargetRole, p.ExperienceLevel, p.ResumeText, []byte(p.Analysis),
		p.DailyUploadCount, p.DailyOptimizeCount, p.LastActivityDate, p.UpdatedAt)
	if err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, target_role, experience_level, resume_text, analysis,
	daily_upload_count, daily_optimize_count, last_activity_date, created_at, updated_at
FROM profiles WHERE user_id = $1
`, userID)
	var p profile.Profile
	var analysis []byte
	var created, updated time.Time
	err := row.Scan(&p.ID, &p.UserID, &p.TargetRole, &p.ExperienceLevel, &p.ResumeText, &analysis,
		&p.DailyUploadCount, &p.DailyOptimizeCount, &p.LastActivityDate, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	p.Analysis = json.RawMessage(analysis)
	p.CreatedAt = created.UTC()
	p.UpdatedAt = updated.UTC()
	return p, nil
}

func (r *ProfileRepository) UpdateAnalysis(ctx context.Context, id uuid.UUID, analysis json.RawMessage) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE profiles SET analysis = $2, updated_at = $3 WHERE id = $1
`, id, []byte(analysis), time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) UpdateActivity(ctx context.Context, id uuid.UUID, uploads, optimizes int, lastActivity time.Time) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE profiles SET
	daily_upload_count = $2,
	daily_optimize_count = $3,
	last_activity_date = $4,
	updated_at = $5
WHERE id = $1
`, id, uploads, optimizes, lastActivity, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) ResetStaleCounters(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE profiles SET daily_upload_count = 0, daily_optimize_count = 0
WHERE last_activity_date < $1 AND (daily_upload_count > 0 OR daily_optimize_count > 0)
`, today)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
