package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskdeck/taskdeck/domain"
	infra "github.com/taskdeck/taskdeck/internal/infrastructure/mongodb"
	"github.com/taskdeck/taskdeck/repository"
)

type taskStore struct {
	conn *infra.Conn
}

// NewTaskStore returns a MongoDB-backed implementation of TaskStore.
// Driver faults are classified into domain errors before they reach
// callers; a dropped connection is re-dialed once per operation.
func NewTaskStore(conn *infra.Conn) repository.TaskStore {
	return &taskStore{conn: conn}
}

func (s *taskStore) Ping(ctx context.Context) bool {
	return s.conn.Ping(ctx)
}

func (s *taskStore) EnsureIndexes(ctx context.Context) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "task_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "due_date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: -1}}},
	}

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "create task indexes", err)
	}
	return nil
}

func (s *taskStore) Insert(ctx context.Context, rec domain.TaskRecord) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	if _, err := coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTaskID
		}
		return domain.WrapError(domain.ErrCodeUnavailable, "insert task", err)
	}
	return nil
}

func (s *taskStore) FindAll(ctx context.Context) ([]domain.TaskRecord, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "list tasks", err)
	}

	records := make([]domain.TaskRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "decode tasks", err)
	}
	return records, nil
}

func (s *taskStore) Update(ctx context.Context, id string, fields map[string]any) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	set := make(bson.M, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	if _, ok := set["updated_at"]; !ok {
		set["updated_at"] = time.Now()
	}

	res, err := coll.UpdateOne(ctx, bson.M{"task_id": id}, bson.M{"$set": set})
	if err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "update task", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *taskStore) Delete(ctx context.Context, id string) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"task_id": id})
	if err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "delete task", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *taskStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// collection re-dials a stale connection once, then hands back the
// task collection.
func (s *taskStore) collection(ctx context.Context) (*mongo.Collection, error) {
	if err := s.conn.Ensure(ctx); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "task store unreachable", err)
	}
	coll := s.conn.Collection()
	if coll == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return coll, nil
}
