package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/services"
)

// Response models are the explicit wire contract: what a handler exposes
// is decided here, not by whatever fields an entity happens to carry.

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio"`
	Followers int64     `json:"followers"`
	Following int64     `json:"following"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileResponse struct {
	UserResponse
	FollowerUsers  []UserSummary `json:"follower_users"`
	FollowingUsers []UserSummary `json:"following_users"`
}

type PostSummary struct {
	ID    uuid.UUID `json:"id"`
	Slug  string    `json:"slug"`
	Title string    `json:"title"`
}

type PostResponse struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Content   string      `json:"content"`
	Category  string      `json:"category"`
	Image     string      `json:"image,omitempty"`
	Author    UserSummary `json:"author"`
	LikeCount int64       `json:"like_count"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type PostDetailResponse struct {
	PostResponse
	Likes []uuid.UUID `json:"likes"`
}

type CommentResponse struct {
	ID        uuid.UUID   `json:"id"`
	PostID    uuid.UUID   `json:"post_id"`
	ParentID  *uuid.UUID  `json:"parent_id"`
	Content   string      `json:"content"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
}

type ThreadResponse struct {
	Comment CommentResponse   `json:"comment"`
	Replies []CommentResponse `json:"replies"`
}

type NotificationResponse struct {
	ID        uuid.UUID    `json:"id"`
	Type      string       `json:"type"`
	Sender    UserSummary  `json:"sender"`
	Post      *PostSummary `json:"post"`
	IsRead    bool         `json:"is_read"`
	CreatedAt time.Time    `json:"created_at"`
}

func toUserSummary(u *models.User) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

func toUserSummaries(users []*models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, toUserSummary(u))
	}
	return out
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Followers: u.Followers,
		Following: u.Following,
		CreatedAt: u.CreatedAt,
	}
}

func toProfileResponse(p *services.Profile) ProfileResponse {
	return ProfileResponse{
		UserResponse:   toUserResponse(p.User),
		FollowerUsers:  toUserSummaries(p.Followers),
		FollowingUsers: toUserSummaries(p.Following),
	}
}

func toPostResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Category:  p.Category,
		Image:     p.Image,
		Author:    toUserSummary(&p.Author),
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostResponses(posts []*models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		Author:    toUserSummary(&c.Author),
		CreatedAt: c.CreatedAt,
	}
}

func toCommentResponses(comments []*models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

func toThreadResponses(threads []*services.Thread) []ThreadResponse {
	out := make([]ThreadResponse, 0, len(threads))
	for _, t := range threads {
		out = append(out, ThreadResponse{
			Comment: toCommentResponse(t.Comment),
			Replies: toCommentResponses(t.Replies),
		})
	}
	return out
}

func toNotificationResponse(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Kind),
		Sender:    toUserSummary(&n.Sender),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.Post != nil {
		resp.Post = &PostSummary{ID: n.Post.ID, Slug: n.Post.Slug, Title: n.Post.Title}
	}
	return resp
}

func toNotificationResponses(notifications []*models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	return out
}
