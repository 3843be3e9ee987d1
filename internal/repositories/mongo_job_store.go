package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"autotube/internal/models"
	"autotube/internal/ports"
)

// VideoJobCollection is the collection jobs are stored in.
const VideoJobCollection = "videojob"

type mongoVideoJob struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	models.VideoJob `bson:",inline"`
}

// MongoJobStore uses ObjectIDs as job ids, so _id order is creation order.
type MongoJobStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoJobStore(client *mongo.Client, database string) *MongoJobStore {
	return &MongoJobStore{
		client: client,
		coll:   client.Database(database).Collection(VideoJobCollection),
	}
}

func (r *MongoJobStore) Driver() string { return "mongo" }

func (r *MongoJobStore) Create(ctx context.Context, job *models.VideoJob) (string, error) {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Keywords == nil {
		job.Keywords = []string{}
	}

	res, err := r.coll.InsertOne(ctx, mongoVideoJob{VideoJob: *job})
	if err != nil {
		return "", fmt.Errorf("mongo insert job: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo insert job: unexpected id type %T", res.InsertedID)
	}

	job.ID = oid.Hex()
	return job.ID, nil
}

func (r *MongoJobStore) Get(ctx context.Context, id string) (*models.VideoJob, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrJobNotFound
	}

	var doc mongoVideoJob
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find job: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoJobStore) Update(ctx context.Context, id string, patch models.JobUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ports.ErrJobNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	setIf := func(name string, v *string) {
		if v != nil {
			set[name] = *v
		}
	}
	setIf("status", patch.Status)
	setIf("audio_url", patch.AudioURL)
	setIf("thumbnail_url", patch.ThumbnailURL)
	setIf("youtube_url", patch.YouTubeURL)
	setIf("upload_status", patch.UploadStatus)

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return ports.ErrJobNotFound
	}
	return nil
}

func (r *MongoJobStore) List(ctx context.Context, limit int) ([]models.VideoJob, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list jobs: %w", err)
	}

	var docs []mongoVideoJob
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode jobs: %w", err)
	}

	out := make([]models.VideoJob, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel())
	}
	return out, nil
}

func (r *MongoJobStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (d *mongoVideoJob) toModel() *models.VideoJob {
	j := d.VideoJob
	j.ID = d.ID.Hex()
	if j.Keywords == nil {
		j.Keywords = []string{}
	}
	if j.Outline == nil {
		j.Outline = []string{}
	}
	return &j
}
