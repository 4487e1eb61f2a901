package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/pkg/logger"
	"github.com/inkwell/inkwell/pkg/queue"
	"github.com/inkwell/inkwell/pkg/slug"
	"gorm.io/gorm"
)

type PostService struct {
	postRepo         *repository.PostRepository
	userRepo         *repository.UserRepository
	likeRepo         *repository.LikeRepository
	notificationRepo *repository.NotificationRepository
	producer         *queue.KafkaProducer
	logger           *logger.Logger
	uploadDir        string
}

func NewPostService(postRepo *repository.PostRepository, userRepo *repository.UserRepository, likeRepo *repository.LikeRepository, notificationRepo *repository.NotificationRepository, producer *queue.KafkaProducer, logger *logger.Logger, uploadDir string) *PostService {
	return &PostService{
		postRepo:         postRepo,
		userRepo:         userRepo,
		likeRepo:         likeRepo,
		notificationRepo: notificationRepo,
		producer:         producer,
		logger:           logger,
		uploadDir:        uploadDir,
	}
}

type CreatePostRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

type UpdatePostRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
}

// LikeToggle reports the outcome of a like toggle: the updated liker id
// set and the resulting state, not the previous one.
type LikeToggle struct {
	Likes []uuid.UUID `json:"likes"`
	Liked bool        `json:"liked"`
}

// Create persists a new post. The slug is derived from the title server
// side; a title that normalizes to an existing slug is rejected, no
// automatic disambiguation is attempted.
func (s *PostService) Create(ctx context.Context, actorID string, req *CreatePostRequest) (*models.Post, error) {
	author, err := parseID(actorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: author,
		Title:    req.Title,
		Slug:     slug.Make(req.Title),
		Content:  req.Content,
		Category: req.Category,
		Image:    req.Image,
	}
	if post.Category == "" {
		post.Category = "General"
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, ErrConflict("a post with this title already exists")
		}
		return nil, ErrInternal(err)
	}

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventPostCreated,
		Timestamp: post.CreatedAt,
		Post: &queue.PostEventData{
			PostID:   post.ID.String(),
			AuthorID: actorID,
			Slug:     post.Slug,
			Title:    post.Title,
		},
	})

	s.logger.WithFields(map[string]interface{}{
		"post_id": post.ID,
		"slug":    post.Slug,
	}).Info("Post created successfully")

	return s.getByID(ctx, post.ID)
}

func (s *PostService) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	id, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	return s.getByID(ctx, id)
}

func (s *PostService) getByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if post == nil {
		return nil, ErrNotFound("post not found")
	}
	return post, nil
}

func (s *PostService) GetBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if post == nil {
		return nil, ErrNotFound("post not found")
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return posts, nil
}

func (s *PostService) GetByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	id, err := parseID(authorID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.GetByAuthorID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return posts, nil
}

func (s *PostService) GetByAuthorUsername(ctx context.Context, username string) ([]*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user == nil {
		return nil, ErrNotFound("user not found")
	}

	posts, err := s.postRepo.GetByAuthorID(ctx, user.ID)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return posts, nil
}

func (s *PostService) Search(ctx context.Context, query string, offset, limit int) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrValidation("search query is required")
	}

	posts, err := s.postRepo.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return posts, nil
}

// Update mutates a post's title, content, category or image. Only the
// author may update; a title change re-derives the slug.
func (s *PostService) Update(ctx context.Context, actorID, postID string, req *UpdatePostRequest) (*models.Post, error) {
	post, err := s.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID.String() != actorID {
		return nil, ErrForbidden("not authorized to update this post")
	}

	if req.Title != nil {
		post.Title = *req.Title
		post.Slug = slug.Make(post.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Image != nil {
		s.removeStoredImage(post.Image)
		post.Image = *req.Image
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, ErrConflict("a post with this title already exists")
		}
		return nil, ErrInternal(err)
	}

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventPostUpdated,
		Timestamp: post.UpdatedAt,
		Post: &queue.PostEventData{
			PostID:   post.ID.String(),
			AuthorID: actorID,
			Slug:     post.Slug,
			Title:    post.Title,
		},
	})

	return post, nil
}

// Delete removes a post and its stored image asset. Author only.
func (s *PostService) Delete(ctx context.Context, actorID, postID string) error {
	post, err := s.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID.String() != actorID {
		return ErrForbidden("not authorized to delete this post")
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return ErrInternal(err)
	}

	s.removeStoredImage(post.Image)

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventPostDeleted,
		Timestamp: time.Now(),
		Post: &queue.PostEventData{
			PostID:   post.ID.String(),
			AuthorID: actorID,
			Slug:     post.Slug,
		},
	})

	s.logger.WithField("post_id", postID).Info("Post deleted successfully")
	return nil
}

// ToggleLike flips the actor's like on a post. Toggling twice with no
// interference restores the original state. A fresh like on someone
// else's post creates one notification; unliking never does.
func (s *PostService) ToggleLike(ctx context.Context, actorID, postID string) (*LikeToggle, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}

	post, err := s.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.HasLikedPost(ctx, actor, post.ID)
	if err != nil {
		return nil, ErrInternal(err)
	}

	if liked {
		if err := s.likeRepo.DeletePostLike(ctx, actor, post.ID); err != nil {
			return nil, ErrInternal(err)
		}
		if err := s.postRepo.UpdateLikeCount(ctx, post.ID, -1); err != nil {
			s.logger.WithError(err).Error("Failed to update post like count")
		}
	} else {
		like := &models.PostLike{UserID: actor, PostID: post.ID}
		if err := s.likeRepo.CreatePostLike(ctx, like); err != nil {
			// A concurrent toggle won the race; the membership already
			// holds, so fall through to report the current set.
			if err != gorm.ErrDuplicatedKey {
				return nil, ErrInternal(err)
			}
		}
		if err := s.postRepo.UpdateLikeCount(ctx, post.ID, 1); err != nil {
			s.logger.WithError(err).Error("Failed to update post like count")
		}

		if post.AuthorID != actor {
			notification := &models.Notification{
				Kind:       models.NotificationLike,
				SenderID:   actor,
				ReceiverID: post.AuthorID,
				PostID:     &post.ID,
			}
			if err := s.notificationRepo.Create(ctx, notification); err != nil {
				s.logger.WithError(err).Error("Failed to create like notification")
			}
		}
	}

	likes, err := s.likeRepo.PostLikerIDs(ctx, post.ID)
	if err != nil {
		return nil, ErrInternal(err)
	}

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventLikeToggled,
		Timestamp: time.Now(),
		Like: &queue.LikeEventData{
			UserID:   actorID,
			TargetID: postID,
			Target:   "post",
			Liked:    !liked,
		},
	})

	return &LikeToggle{Likes: likes, Liked: !liked}, nil
}

// PostLikerIDs exposes the current liker set for response shaping.
func (s *PostService) PostLikerIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	likes, err := s.likeRepo.PostLikerIDs(ctx, postID)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return likes, nil
}

// removeStoredImage deletes a locally stored upload. Images hosted
// elsewhere (plain URLs) are left alone.
func (s *PostService) removeStoredImage(image string) {
	if image == "" || s.uploadDir == "" {
		return
	}
	if !strings.HasPrefix(image, "/uploads/") {
		return
	}

	path := filepath.Join(s.uploadDir, filepath.Base(image))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).Warn("Failed to remove stored image")
	}
}

func (s *PostService) publish(ctx context.Context, key string, event queue.Event) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish post event")
	}
}
