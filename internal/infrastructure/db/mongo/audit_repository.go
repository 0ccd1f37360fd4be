package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

const collectionAuditLogs = "audit_logs"

// AuditRepository appends entries to the audit_logs collection. The trail is
// write-only: nothing in the application reads it back.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditLogs)}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	doc := bson.M{
		"task_id":   entry.TaskID,
		"user_id":   entry.UserID,
		"action":    entry.Action,
		"details":   entry.Details,
		"timestamp": ts.UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
