package repositories

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"autotube/internal/models"
)

func TestMongoDocumentShape(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := mongoVideoJob{
		ID: oid,
		VideoJob: models.VideoJob{
			ID:       "ignored",
			Niche:    "Fakta Unik",
			Duration: 120,
			Status:   models.StatusGenerated,
			AudioURL: models.Ptr("/static/audio/x.mp3"),
		},
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["_id"] != oid {
		t.Errorf("expected _id %v, got %v", oid, m["_id"])
	}
	if m["niche"] != "Fakta Unik" || m["audio_url"] != "/static/audio/x.mp3" {
		t.Errorf("fields not inlined: %v", m)
	}
	if _, ok := m["thumbnail_url"]; ok {
		t.Error("nil thumbnail_url must be omitted")
	}
	if _, ok := m["id"]; ok {
		t.Error("model id must not be stored")
	}

	var back mongoVideoJob
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := back.toModel()
	if got.ID != oid.Hex() {
		t.Errorf("expected id %s, got %s", oid.Hex(), got.ID)
	}
	if got.Keywords == nil || got.Outline == nil {
		t.Error("missing lists should decode as empty, not nil")
	}
}
