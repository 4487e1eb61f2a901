package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to a post. ParentID is nil for a top-level comment and
// references another comment on the same post for a reply. Comments are
// never edited in place.
type Comment struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	PostID    uuid.UUID      `json:"post_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID      `json:"author_id" gorm:"type:uuid;not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	ParentID  *uuid.UUID     `json:"parent_id" gorm:"type:uuid"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
	Post   Post `json:"post" gorm:"foreignKey:PostID"`
}

type CommentLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_comment_like_user_comment"`
	CommentID uuid.UUID `json:"comment_id" gorm:"type:uuid;not null;uniqueIndex:idx_comment_like_user_comment"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `json:"user" gorm:"foreignKey:UserID"`
	Comment Comment `json:"comment" gorm:"foreignKey:CommentID"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (l *CommentLike) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (Comment) TableName() string {
	return "comments"
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
