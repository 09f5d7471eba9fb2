// internal/models/social.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Address struct {
	BaseModel
	UserID            uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Name              string    `json:"name" gorm:"size:100;not null"`
	HouseNumber       string    `json:"house_number" gorm:"size:100;not null"`
	Street            string    `json:"address" gorm:"size:500;not null"`
	Landmark          string    `json:"landmark,omitempty" gorm:"size:255"`
	City              string    `json:"city" gorm:"size:100;not null"`
	State             string    `json:"state" gorm:"size:100;not null"`
	Pincode           string    `json:"pincode" gorm:"size:6;not null;index"`
	PhoneNumber       string    `json:"phone_number" gorm:"size:15;not null"`
	IsDefault         bool      `json:"is_default" gorm:"default:false"`
	PickupAvailable   bool      `json:"pickup_available" gorm:"default:false"`
	DeliveryAvailable bool      `json:"delivery_available" gorm:"default:false"`
	CODAvailable      bool      `json:"cod_available" gorm:"default:false"`
}

// Snapshot copies the address into an order so later edits do not change it.
func (a *Address) Snapshot() JSONB {
	return JSONB{
		"name":         a.Name,
		"house_number": a.HouseNumber,
		"address":      a.Street,
		"landmark":     a.Landmark,
		"city":         a.City,
		"state":        a.State,
		"pincode":      a.Pincode,
		"phone_number": a.PhoneNumber,
	}
}

type Comment struct {
	BaseModel
	ProductID     uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID      `json:"user_id" gorm:"type:uuid;not null"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	TaggedUserIDs pq.StringArray `json:"tagged_user_ids" gorm:"type:text[]"`
	ReplyCount    int            `json:"reply_count" gorm:"default:0"`

	// Relationships
	User    *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Replies []CommentReply `json:"replies,omitempty" gorm:"foreignKey:CommentID"`
}

type CommentReply struct {
	BaseModel
	CommentID     uuid.UUID      `json:"comment_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID      `json:"user_id" gorm:"type:uuid;not null"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	TaggedUserIDs pq.StringArray `json:"tagged_user_ids" gorm:"type:text[]"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair;index"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserReport struct {
	BaseModel
	ReportedUserID uuid.UUID `json:"reported_user_id" gorm:"type:uuid;not null;index"`
	ReportedByID   uuid.UUID `json:"reported_by_id" gorm:"type:uuid;not null"`
	ReportOption   string    `json:"report_option" gorm:"size:100;not null"`
	Reason         string    `json:"reason" gorm:"type:text;not null"`
}
