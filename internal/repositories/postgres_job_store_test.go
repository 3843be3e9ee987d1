package repositories

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"autotube/internal/models"
	"autotube/internal/ports"
)

// fakeRow copies values into Scan destinations in column order.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if r.values[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type fakeDB struct {
	DBTX

	row  pgx.Row
	tag  pgconn.CommandTag
	sql  string
	args []any
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return f.row
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return f.tag, nil
}

func TestPostgresGetScansRow(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{
		"id-1", "Fakta Unik", "Judul", []string{"fakta"}, "educational", 120,
		[]string{"intro"}, "script", models.StatusTTSReady,
		models.Ptr("/static/audio/id-1.mp3"), nil, nil, nil,
		created, created,
	}}}

	job, err := NewPostgresJobStore(db).Get(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.ID != "id-1" || job.Duration != 120 || job.Status != models.StatusTTSReady {
		t.Errorf("unexpected job %+v", job)
	}
	if job.AudioURL == nil || *job.AudioURL != "/static/audio/id-1.mp3" {
		t.Errorf("audio_url not scanned: %v", job.AudioURL)
	}
	if job.ThumbnailURL != nil || job.YouTubeURL != nil || job.UploadStatus != nil {
		t.Error("NULL columns must scan as nil")
	}
	if !job.CreatedAt.Equal(created) {
		t.Errorf("created_at mismatch: %v", job.CreatedAt)
	}
	if len(db.args) != 1 || db.args[0] != "id-1" {
		t.Errorf("unexpected args %v", db.args)
	}
}

func TestPostgresGetMissing(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := NewPostgresJobStore(db).Get(context.Background(), "nope")
	if !errors.Is(err, ports.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestPostgresCreateWritesEmptyLists(t *testing.T) {
	now := time.Now().UTC()
	db := &fakeDB{row: fakeRow{values: []any{now, now}}}
	job := &models.VideoJob{Niche: "Fakta Unik", Duration: 60, Status: models.StatusGenerated}

	id, err := NewPostgresJobStore(db).Create(context.Background(), job)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" || job.ID != id {
		t.Errorf("expected id assigned to job, got %q / %q", id, job.ID)
	}
	if !job.CreatedAt.Equal(now) {
		t.Errorf("created_at not taken from RETURNING: %v", job.CreatedAt)
	}

	keywords, ok := db.args[3].([]string)
	if !ok || keywords == nil {
		t.Errorf("keywords must be a non-nil slice, got %#v", db.args[3])
	}
	outline, ok := db.args[6].([]string)
	if !ok || outline == nil {
		t.Errorf("outline must be a non-nil slice, got %#v", db.args[6])
	}
}

func TestPostgresUpdate(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr error
	}{
		{"updated", "UPDATE 1", nil},
		{"missing", "UPDATE 0", ports.ErrJobNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{tag: pgconn.NewCommandTag(tt.tag)}
			status := models.StatusThumbReady

			err := NewPostgresJobStore(db).Update(context.Background(), "id-1", models.JobUpdate{Status: &status})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if db.args[0] != "id-1" || db.args[1] != &status {
				t.Errorf("unexpected args %v", db.args)
			}
			if db.args[2] != (*string)(nil) {
				t.Errorf("unpatched field must be passed as NULL, got %#v", db.args[2])
			}
		})
	}
}

func TestNonNil(t *testing.T) {
	if got := nonNil(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
	in := []string{"a"}
	if got := nonNil(in); !reflect.DeepEqual(got, in) {
		t.Errorf("expected %v, got %v", in, got)
	}
}
