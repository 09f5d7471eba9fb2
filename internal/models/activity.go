// internal/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BargainHistory records one state change of a bargain.
type BargainHistory struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BargainID  string             `json:"bargain_id" bson:"bargain_id"`
	ProductID  string             `json:"product_id" bson:"product_id"`
	ActorID    string             `json:"actor_id" bson:"actor_id"`
	Action     string             `json:"action" bson:"action"`
	FromStatus string             `json:"from_status,omitempty" bson:"from_status,omitempty"`
	ToStatus   string             `json:"to_status" bson:"to_status"`
	OfferedIn  string             `json:"offered_in" bson:"offered_in"`
	Price      string             `json:"offered_price" bson:"offered_price"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Type      string             `json:"type" bson:"type"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	RelatedID string             `json:"related_id,omitempty" bson:"related_id,omitempty"`
	IsRead    bool               `json:"is_read" bson:"is_read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type AuditLog struct {
	ID           primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID       string                 `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Action       string                 `json:"action" bson:"action"`
	ResourceType string                 `json:"resource_type" bson:"resource_type"`
	ResourceID   string                 `json:"resource_id,omitempty" bson:"resource_id,omitempty"`
	Status       int                    `json:"status" bson:"status"`
	IPAddress    string                 `json:"ip_address" bson:"ip_address"`
	UserAgent    string                 `json:"user_agent" bson:"user_agent"`
	Payload      map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	DurationMS   int64                  `json:"duration_ms" bson:"duration_ms"`
	CreatedAt    time.Time              `json:"created_at" bson:"created_at"`
}

const (
	NotificationBargainReceived = "bargain_received"
	NotificationBargainUpdated  = "bargain_updated"
	NotificationBargainAccepted = "bargain_accepted"
	NotificationBargainRejected = "bargain_rejected"
	NotificationCommentTagged   = "comment_tagged"
	NotificationNewFollower     = "new_follower"
	NotificationOrderPlaced     = "order_placed"
)
