package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

const collectionTasks = "tasks"

// TaskRepository implements ports.TaskRepository using MongoDB.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	DueDate      time.Time          `bson:"due_date"`
	Priority     string             `bson:"priority"`
	Status       string             `bson:"status"`
	CreatorID    string             `bson:"creator_id"`
	AssignedToID string             `bson:"assigned_to_id"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (m *mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:           m.ID.Hex(),
		Title:        m.Title,
		Description:  m.Description,
		DueDate:      m.DueDate.UTC(),
		Priority:     domain.Priority(m.Priority),
		Status:       domain.Status(m.Status),
		CreatorID:    m.CreatorID,
		AssignedToID: m.AssignedToID,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// Create inserts a new task document with generated id and timestamps.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoTask{
		ID:           primitive.NewObjectID(),
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      t.DueDate.UTC(),
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		CreatorID:    t.CreatorID,
		AssignedToID: t.AssignedToID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// Find returns tasks matching filter, ordered ascending by due date.
func (r *TaskRepository) Find(ctx context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.AssignedToID != "" {
		query["assigned_to_id"] = filter.AssignedToID
	}
	if filter.CreatorID != "" {
		query["creator_id"] = filter.CreatorID
	}
	if filter.Overdue {
		// Overdue narrowing replaces any status equality filter: due date in
		// the past and not completed, whatever status was asked for.
		query["due_date"] = bson.M{"$lt": time.Now().UTC()}
		query["status"] = bson.M{"$ne": string(domain.StatusCompleted)}
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tasks := make([]*domain.Task, 0)
	for cur.Next(ctx) {
		var mt mongoTask
		if err := cur.Decode(&mt); err != nil {
			return nil, err
		}
		tasks = append(tasks, mt.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID retrieves a single task. A malformed id is indistinguishable from a
// missing document to callers: both map to ErrTaskNotFound.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	var mt mongoTask
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return mt.toDomain(), nil
}

// UpdateByID applies a partial field merge and returns the post-update document.
func (r *TaskRepository) UpdateByID(ctx context.Context, id string, update ports.TaskUpdate) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.DueDate != nil {
		set["due_date"] = update.DueDate.UTC()
	}
	if update.Priority != nil {
		set["priority"] = string(*update.Priority)
	}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.AssignedToID != nil {
		set["assigned_to_id"] = *update.AssignedToID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mt mongoTask
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return mt.toDomain(), nil
}

// DeleteByID removes the document. Deleting an already-missing task is not an
// error here; the service checks existence first.
func (r *TaskRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	_, err = r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// EnsureIndexes creates the indexes backing the list filters.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "creator_id", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to_id", Value: 1}}},
		{Keys: bson.D{{Key: "due_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
