package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"autotube/internal/models"
	"autotube/internal/ports"
)

const videoJobsSchema = `
CREATE TABLE IF NOT EXISTS video_jobs (
	seq           BIGSERIAL UNIQUE,
	id            TEXT PRIMARY KEY,
	niche         TEXT NOT NULL,
	title         TEXT NOT NULL DEFAULT '',
	keywords      JSONB NOT NULL DEFAULT '[]',
	style         TEXT NOT NULL DEFAULT 'educational',
	duration      INTEGER NOT NULL,
	outline       JSONB NOT NULL DEFAULT '[]',
	script        TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	audio_url     TEXT,
	thumbnail_url TEXT,
	youtube_url   TEXT,
	upload_status TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const videoJobColumns = `id, niche, title, keywords, style, duration, outline, script, status,
	audio_url, thumbnail_url, youtube_url, upload_status, created_at, updated_at`

// DBTX is the part of *pgxpool.Pool the store uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresJobStore stores jobs in the video_jobs table. seq preserves insertion order.
type PostgresJobStore struct {
	db DBTX
}

func NewPostgresJobStore(db DBTX) *PostgresJobStore {
	return &PostgresJobStore{db: db}
}

func (r *PostgresJobStore) Driver() string { return "postgres" }

// EnsureSchema creates the table when missing.
func (r *PostgresJobStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, videoJobsSchema); err != nil {
		return fmt.Errorf("create video_jobs: %w", err)
	}
	return nil
}

func (r *PostgresJobStore) Create(ctx context.Context, job *models.VideoJob) (string, error) {
	id := uuid.NewString()
	keywords := nonNil(job.Keywords)
	outline := nonNil(job.Outline)

	err := r.db.QueryRow(ctx, `
		INSERT INTO video_jobs (id, niche, title, keywords, style, duration, outline, script, status,
			audio_url, thumbnail_url, youtube_url, upload_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at
	`, id, job.Niche, job.Title, keywords, job.Style, job.Duration, outline, job.Script, job.Status,
		job.AudioURL, job.ThumbnailURL, job.YouTubeURL, job.UploadStatus,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("insert video job: %w", err)
	}

	job.ID = id
	return id, nil
}

func (r *PostgresJobStore) Get(ctx context.Context, id string) (*models.VideoJob, error) {
	row := r.db.QueryRow(ctx, `SELECT `+videoJobColumns+` FROM video_jobs WHERE id=$1`, id)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select video job: %w", err)
	}
	return job, nil
}

func (r *PostgresJobStore) Update(ctx context.Context, id string, patch models.JobUpdate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE video_jobs SET
			status        = COALESCE($2, status),
			audio_url     = COALESCE($3, audio_url),
			thumbnail_url = COALESCE($4, thumbnail_url),
			youtube_url   = COALESCE($5, youtube_url),
			upload_status = COALESCE($6, upload_status),
			updated_at    = now()
		WHERE id=$1
	`, id, patch.Status, patch.AudioURL, patch.ThumbnailURL, patch.YouTubeURL, patch.UploadStatus)
	if err != nil {
		return fmt.Errorf("update video job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobStore) List(ctx context.Context, limit int) ([]models.VideoJob, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+videoJobColumns+`
		FROM video_jobs
		ORDER BY seq DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list video jobs: %w", err)
	}
	defer rows.Close()

	out := []models.VideoJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video job: %w", err)
		}
		out = append(out, *job)
	}
	return out, rows.Err()
}

func (r *PostgresJobStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanJob(row pgx.Row) (*models.VideoJob, error) {
	var j models.VideoJob
	err := row.Scan(
		&j.ID,
		&j.Niche,
		&j.Title,
		&j.Keywords,
		&j.Style,
		&j.Duration,
		&j.Outline,
		&j.Script,
		&j.Status,
		&j.AudioURL,
		&j.ThumbnailURL,
		&j.YouTubeURL,
		&j.UploadStatus,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
