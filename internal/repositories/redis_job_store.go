package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"autotube/internal/models"
	"autotube/internal/ports"
)

// RedisJobStore keeps each job in a hash and orders ids in a sorted set scored by a
// monotonically increasing sequence.
type RedisJobStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisJobStore(rdb *redis.Client, prefix string) *RedisJobStore {
	if prefix == "" {
		prefix = "autotube"
	}
	return &RedisJobStore{rdb: rdb, prefix: prefix}
}

func (r *RedisJobStore) Driver() string { return "redis" }

func (r *RedisJobStore) jobKey(id string) string { return r.prefix + ":job:" + id }
func (r *RedisJobStore) indexKey() string        { return r.prefix + ":jobs" }
func (r *RedisJobStore) seqKey() string          { return r.prefix + ":jobs:seq" }

func (r *RedisJobStore) Create(ctx context.Context, job *models.VideoJob) (string, error) {
	seq, err := r.rdb.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return "", fmt.Errorf("redis incr seq: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	job.ID = id
	job.CreatedAt = now
	job.UpdatedAt = now

	fields, err := encodeJobHash(job)
	if err != nil {
		return "", err
	}

	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.jobKey(id), fields)
		p.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("redis create job: %w", err)
	}
	return id, nil
}

func (r *RedisJobStore) Get(ctx context.Context, id string) (*models.VideoJob, error) {
	h, err := r.rdb.HGetAll(ctx, r.jobKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get job: %w", err)
	}
	if len(h) == 0 {
		return nil, ports.ErrJobNotFound
	}
	return decodeJobHash(id, h)
}

func (r *RedisJobStore) Update(ctx context.Context, id string, patch models.JobUpdate) error {
	n, err := r.rdb.Exists(ctx, r.jobKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis exists job: %w", err)
	}
	if n == 0 {
		return ports.ErrJobNotFound
	}

	fields := map[string]any{"updated_at": time.Now().UTC().Format(time.RFC3339Nano)}
	setIf := func(name string, v *string) {
		if v != nil {
			fields[name] = *v
		}
	}
	setIf("status", patch.Status)
	setIf("audio_url", patch.AudioURL)
	setIf("thumbnail_url", patch.ThumbnailURL)
	setIf("youtube_url", patch.YouTubeURL)
	setIf("upload_status", patch.UploadStatus)

	if err := r.rdb.HSet(ctx, r.jobKey(id), fields).Err(); err != nil {
		return fmt.Errorf("redis update job: %w", err)
	}
	return nil
}

func (r *RedisJobStore) List(ctx context.Context, limit int) ([]models.VideoJob, error) {
	ids, err := r.rdb.ZRevRange(ctx, r.indexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list jobs: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, r.jobKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis load jobs: %w", err)
	}

	hashes := make([]map[string]string, len(cmds))
	for i, cmd := range cmds {
		hashes[i] = cmd.Val()
	}
	return collectJobs(ids, hashes)
}

// collectJobs decodes hashes in index order. Ids whose hash is gone are skipped.
func collectJobs(ids []string, hashes []map[string]string) ([]models.VideoJob, error) {
	out := make([]models.VideoJob, 0, len(ids))
	for i, id := range ids {
		if len(hashes[i]) == 0 {
			continue
		}
		job, err := decodeJobHash(id, hashes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *job)
	}
	return out, nil
}

func (r *RedisJobStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func encodeJobHash(j *models.VideoJob) (map[string]any, error) {
	keywords, err := json.Marshal(nonNil(j.Keywords))
	if err != nil {
		return nil, fmt.Errorf("encode keywords: %w", err)
	}
	outline, err := json.Marshal(nonNil(j.Outline))
	if err != nil {
		return nil, fmt.Errorf("encode outline: %w", err)
	}

	h := map[string]any{
		"niche":      j.Niche,
		"title":      j.Title,
		"keywords":   string(keywords),
		"style":      j.Style,
		"duration":   j.Duration,
		"outline":    string(outline),
		"script":     j.Script,
		"status":     j.Status,
		"created_at": j.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": j.UpdatedAt.Format(time.RFC3339Nano),
	}
	for name, v := range map[string]*string{
		"audio_url":     j.AudioURL,
		"thumbnail_url": j.ThumbnailURL,
		"youtube_url":   j.YouTubeURL,
		"upload_status": j.UploadStatus,
	} {
		if v != nil {
			h[name] = *v
		}
	}
	return h, nil
}

func decodeJobHash(id string, h map[string]string) (*models.VideoJob, error) {
	j := &models.VideoJob{
		ID:     id,
		Niche:  h["niche"],
		Title:  h["title"],
		Style:  h["style"],
		Script: h["script"],
		Status: h["status"],
	}

	if v := h["duration"]; v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("decode duration for job %s: %w", id, err)
		}
		j.Duration = d
	}
	if err := unmarshalList(h["keywords"], &j.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords for job %s: %w", id, err)
	}
	if err := unmarshalList(h["outline"], &j.Outline); err != nil {
		return nil, fmt.Errorf("decode outline for job %s: %w", id, err)
	}

	j.AudioURL = optional(h, "audio_url")
	j.ThumbnailURL = optional(h, "thumbnail_url")
	j.YouTubeURL = optional(h, "youtube_url")
	j.UploadStatus = optional(h, "upload_status")

	j.CreatedAt, _ = time.Parse(time.RFC3339Nano, h["created_at"])
	j.UpdatedAt, _ = time.Parse(time.RFC3339Nano, h["updated_at"])
	return j, nil
}

func unmarshalList(raw string, dst *[]string) error {
	if raw == "" {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func optional(h map[string]string, key string) *string {
	v, ok := h[key]
	if !ok {
		return nil
	}
	return &v
}
