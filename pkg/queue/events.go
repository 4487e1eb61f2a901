package queue

import "time"

type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserDeleted    EventType = "user_deleted"
	EventPostCreated    EventType = "post_created"
	EventPostUpdated    EventType = "post_updated"
	EventPostDeleted    EventType = "post_deleted"
	EventCommentCreated EventType = "comment_created"
	EventCommentDeleted EventType = "comment_deleted"
	EventLikeToggled    EventType = "like_toggled"
	EventFollowCreated  EventType = "follow_created"
	EventFollowRemoved  EventType = "follow_removed"
)

type Event struct {
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Follow    *FollowEventData  `json:"follow,omitempty"`
	Post      *PostEventData    `json:"post,omitempty"`
	Comment   *CommentEventData `json:"comment,omitempty"`
	Like      *LikeEventData    `json:"like,omitempty"`
	User      *UserEventData    `json:"user,omitempty"`
}

type UserEventData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type PostEventData struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
}

type FollowEventData struct {
	FollowerID     string `json:"follower_id"`
	FollowerName   string `json:"follower_name"`
	FollowingID    string `json:"following_id"`
	FollowingEmail string `json:"following_email,omitempty"`
	FollowingName  string `json:"following_name,omitempty"`
}

type CommentEventData struct {
	CommentID  string `json:"comment_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	PostID     string `json:"post_id"`
	PostTitle  string `json:"post_title"`
	OwnerID    string `json:"owner_id"`
	OwnerEmail string `json:"owner_email,omitempty"`
	Content    string `json:"content"`
}

type LikeEventData struct {
	UserID   string `json:"user_id"`
	TargetID string `json:"target_id"`
	Target   string `json:"target"` // "post" or "comment"
	Liked    bool   `json:"liked"`
}
