package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-system/internal/core/domain"
)

const activityCollection = "activity"

type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

type mongoActivity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	TaskID    string             `bson:"task_id"`
	TaskTitle string             `bson:"task_title"`
	Action    string             `bson:"action"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *domain.Activity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoActivity{
		UserID:    entry.UserID,
		TaskID:    entry.TaskID,
		TaskTitle: entry.TaskTitle,
		Action:    string(entry.Action),
		CreatedAt: entry.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []*domain.Activity{}
	for cursor.Next(ctx) {
		var ma mongoActivity
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		entries = append(entries, &domain.Activity{
			ID:        ma.ID.Hex(),
			UserID:    ma.UserID,
			TaskID:    ma.TaskID,
			TaskTitle: ma.TaskTitle,
			Action:    domain.ActivityAction(ma.Action),
			CreatedAt: ma.CreatedAt.UTC(),
		})
	}
	return entries, cursor.Err()
}

// EnsureIndexes creates the index backing per-user history reads.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
