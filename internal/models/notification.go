package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
)

// Notification is a one-way activity record. PostID is nil for follow
// notifications. A notification is never written when sender == receiver.
type Notification struct {
	ID         uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	Kind       NotificationKind `json:"type" gorm:"column:type;not null"`
	SenderID   uuid.UUID        `json:"sender_id" gorm:"type:uuid;not null"`
	ReceiverID uuid.UUID        `json:"receiver_id" gorm:"type:uuid;not null;index"`
	PostID     *uuid.UUID       `json:"post_id" gorm:"type:uuid"`
	IsRead     bool             `json:"is_read" gorm:"default:false"`
	CreatedAt  time.Time        `json:"created_at"`

	Sender   User  `json:"sender" gorm:"foreignKey:SenderID"`
	Receiver User  `json:"receiver" gorm:"foreignKey:ReceiverID"`
	Post     *Post `json:"post,omitempty" gorm:"foreignKey:PostID"`
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}
