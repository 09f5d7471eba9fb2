// Package mongodb keeps the append-only activity log in MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

const (
	CollectionBargainHistory = "bargain_history"
	CollectionNotifications  = "notifications"
	CollectionAuditLogs      = "audit_logs"
)

type activityRepository struct {
	history       *mongo.Collection
	notifications *mongo.Collection
	audit         *mongo.Collection
	timeout       time.Duration
}

func NewActivityRepository(db *mongo.Database, timeout time.Duration) repository.ActivityRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &activityRepository{
		history:       db.Collection(CollectionBargainHistory),
		notifications: db.Collection(CollectionNotifications),
		audit:         db.Collection(CollectionAuditLogs),
		timeout:       timeout,
	}
}

// EnsureIndexes creates the lookup indexes used by the list queries.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		CollectionBargainHistory: {Keys: bson.D{{Key: "bargain_id", Value: 1}, {Key: "created_at", Value: -1}}},
		CollectionNotifications:  {Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		CollectionAuditLogs:      {Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	for collection, index := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, index); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", collection, err)
		}
	}
	return nil
}

func (r *activityRepository) insert(ctx context.Context, collection *mongo.Collection, doc interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection.Name(), err)
	}
	return nil
}

func (r *activityRepository) SaveBargainHistory(ctx context.Context, entry *models.BargainHistory) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.insert(ctx, r.history, entry)
}

func (r *activityRepository) SaveNotification(ctx context.Context, notification *models.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	return r.insert(ctx, r.notifications, notification)
}

func (r *activityRepository) ListNotifications(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.notifications.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *activityRepository) SaveAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.insert(ctx, r.audit, entry)
}
