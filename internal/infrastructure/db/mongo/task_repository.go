package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

const tasksCollection = "tasks"

// TaskRepository persists tasks. Every query on an existing task carries
// both _id and user_id; there is no unscoped lookup to misuse.
type TaskRepository struct {
	tasks      *mongo.Collection
	categories *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		tasks:      db.Collection(tasksCollection),
		categories: db.Collection(categoriesCollection),
	}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Status      string             `bson:"status"`
	UserID      string             `bson:"user_id"`
	CategoryID  string             `bson:"category_id,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (t mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:          t.ID.Hex(),
		Title:       t.Title,
		Description: t.Description,
		Status:      domain.TaskStatus(t.Status),
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTask{
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		UserID:      task.UserID,
		CategoryID:  task.CategoryID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	res, err := r.tasks.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *task
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// List returns the user's tasks matching filter, newest first. A category
// name narrows to tasks referencing any category with that exact name
// (names are not unique).
func (r *TaskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"user_id": filter.UserID}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.CategoryName != "" {
		ids, err := r.categoryIDsByName(ctx, filter.CategoryName)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []*domain.Task{}, nil
		}
		query["category_id"] = bson.M{"$in": ids}
	}

	cursor, err := r.tasks.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []*domain.Task{}
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) FindOwned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownedFilter(userID, taskID)
	if err != nil {
		return nil, err
	}

	var mt mongoTask
	if err := r.tasks.FindOne(ctx, filter).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) Update(ctx context.Context, userID, taskID string, changes ports.TaskChanges) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownedFilter(userID, taskID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.Description != nil {
		set["description"] = *changes.Description
	}
	if changes.Status != nil {
		set["status"] = string(*changes.Status)
	}
	if changes.CategoryID != nil {
		set["category_id"] = *changes.CategoryID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mt mongoTask
	if err := r.tasks.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownedFilter(userID, taskID)
	if err != nil {
		return err
	}

	res, err := r.tasks.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing owner-scoped queries.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	}

	_, err := r.tasks.Indexes().CreateMany(ctx, indexes)
	return err
}

// ownedFilter builds the joint (_id, user_id) filter. A malformed task id
// cannot match anything, so it reports the same not-found as a miss.
func ownedFilter(userID, taskID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return bson.M{"_id": oid, "user_id": userID}, nil
}

func (r *TaskRepository) categoryIDsByName(ctx context.Context, name string) ([]string, error) {
	cursor, err := r.categories.Find(ctx, bson.M{"name": name})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var mc mongoCategory
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		ids = append(ids, mc.ID.Hex())
	}
	return ids, cursor.Err()
}
