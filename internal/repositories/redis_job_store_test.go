package repositories

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"autotube/internal/models"
	"autotube/internal/ports"
)

func TestJobHashRoundTripKeepsNilURLs(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	job := &models.VideoJob{
		Niche:        "Fakta Unik",
		Title:        "Fakta Unik: Rahasia Yang Jarang Dibahas",
		Keywords:     []string{"fakta", "unik"},
		Style:        "educational",
		Duration:     120,
		Outline:      []string{"a", "b"},
		Script:       "script",
		Status:       models.StatusTTSReady,
		AudioURL:     models.Ptr("/static/audio/x.mp3"),
		UploadStatus: models.Ptr(""),
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	fields, err := encodeJobHash(job)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, ok := fields["thumbnail_url"]; ok {
		t.Error("nil thumbnail_url must not be written")
	}

	// Redis hands every field back as a string.
	h := make(map[string]string, len(fields))
	for k, v := range fields {
		switch tv := v.(type) {
		case string:
			h[k] = tv
		case int:
			h[k] = "120"
		default:
			t.Fatalf("unexpected field type %T for %s", v, k)
		}
	}

	got, err := decodeJobHash("abc", h)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "abc" || got.Duration != 120 {
		t.Errorf("unexpected id/duration %q/%d", got.ID, got.Duration)
	}
	if !reflect.DeepEqual(got.Keywords, job.Keywords) || !reflect.DeepEqual(got.Outline, job.Outline) {
		t.Errorf("lists mismatch: %v %v", got.Keywords, got.Outline)
	}
	if got.AudioURL == nil || *got.AudioURL != "/static/audio/x.mp3" {
		t.Errorf("audio_url lost: %v", got.AudioURL)
	}
	if got.ThumbnailURL != nil || got.YouTubeURL != nil {
		t.Error("unset urls must decode as nil")
	}
	if got.UploadStatus == nil {
		t.Error("empty-but-set upload_status must decode as non-nil")
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at mismatch: %v", got.CreatedAt)
	}
}

func TestDecodeJobHashRejectsBadDuration(t *testing.T) {
	_, err := decodeJobHash("x", map[string]string{"duration": "abc"})
	if err == nil {
		t.Fatal("expected error for non-numeric duration")
	}
}

func TestCollectJobsKeepsIndexOrder(t *testing.T) {
	ids := []string{"c", "b", "a"}
	hashes := []map[string]string{
		{"niche": "third", "duration": "60"},
		{},
		{"niche": "first", "duration": "60"},
	}

	got, err := collectJobs(ids, hashes)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("expected [c a], got [%s %s]", got[0].ID, got[1].ID)
	}
	if got[0].Niche != "third" {
		t.Errorf("hash paired with wrong id: %+v", got[0])
	}
}

func TestCollectJobsPropagatesDecodeError(t *testing.T) {
	_, err := collectJobs([]string{"x"}, []map[string]string{{"duration": "soon"}})
	if err == nil {
		t.Fatal("expected decode error")
	}
}

// Runs against a real server when AUTOTUBE_TEST_REDIS_ADDR is set.
func TestRedisJobStoreIntegration(t *testing.T) {
	addr := os.Getenv("AUTOTUBE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("AUTOTUBE_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	prefix := "autotube-test-" + uuid.NewString()
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
	})
	store := NewRedisJobStore(rdb, prefix)

	var ids []string
	for _, niche := range []string{"satu", "dua", "tiga"} {
		id, err := store.Create(ctx, &models.VideoJob{Niche: niche, Duration: 60, Status: models.StatusGenerated})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, id)
	}

	list, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != ids[2] || list[1].ID != ids[1] {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if err := store.Update(ctx, ids[0], models.JobUpdate{AudioURL: models.Ptr("/static/audio/a.mp3")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	job, err := store.Get(ctx, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if job.Niche != "satu" || job.Status != models.StatusGenerated || job.AudioURL == nil {
		t.Errorf("update must only touch patched fields: %+v", job)
	}

	if err := store.Update(ctx, "missing", models.JobUpdate{Status: models.Ptr(models.StatusUploaded)}); !errors.Is(err, ports.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}
