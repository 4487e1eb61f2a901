package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/pkg/logger"
	"github.com/inkwell/inkwell/pkg/queue"
	"gorm.io/gorm"
)

type CommentService struct {
	postRepo         *repository.PostRepository
	commentRepo      *repository.CommentRepository
	likeRepo         *repository.LikeRepository
	notificationRepo *repository.NotificationRepository
	producer         *queue.KafkaProducer
	logger           *logger.Logger
}

func NewCommentService(postRepo *repository.PostRepository, commentRepo *repository.CommentRepository, likeRepo *repository.LikeRepository, notificationRepo *repository.NotificationRepository, producer *queue.KafkaProducer, logger *logger.Logger) *CommentService {
	return &CommentService{
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		likeRepo:         likeRepo,
		notificationRepo: notificationRepo,
		producer:         producer,
		logger:           logger,
	}
}

type CreateCommentRequest struct {
	PostID   string  `json:"post_id" binding:"required"`
	Content  string  `json:"content" binding:"required,min=1,max=2000"`
	ParentID *string `json:"parent_id"`
}

// Thread is one top-level comment with its direct replies. Replies to a
// reply are not re-nested; the tree is exactly two levels deep.
type Thread struct {
	Comment *models.Comment   `json:"comment"`
	Replies []*models.Comment `json:"replies"`
}

// Create persists a comment and notifies the post author. Replies notify
// the post author as well, never the parent comment's author. The
// notification is best-effort and cannot unwind the comment.
func (s *CommentService) Create(ctx context.Context, actorID string, req *CreateCommentRequest) (*models.Comment, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}

	postID, err := parseID(req.PostID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if post == nil {
		return nil, ErrNotFound("post not found")
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := parseID(*req.ParentID)
		if err != nil {
			return nil, err
		}

		parentComment, err := s.commentRepo.GetByID(ctx, parent)
		if err != nil {
			return nil, ErrInternal(err)
		}
		if parentComment == nil {
			return nil, ErrValidation("parent comment not found")
		}
		if parentComment.PostID != postID {
			return nil, ErrValidation("parent comment does not belong to this post")
		}

		parentID = &parent
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: actor,
		Content:  req.Content,
		ParentID: parentID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, ErrInternal(err)
	}

	if post.AuthorID != actor {
		notification := &models.Notification{
			Kind:       models.NotificationComment,
			SenderID:   actor,
			ReceiverID: post.AuthorID,
			PostID:     &post.ID,
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.WithError(err).Error("Failed to create comment notification")
		}
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, ErrInternal(err)
	}

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventCommentCreated,
		Timestamp: comment.CreatedAt,
		Comment: &queue.CommentEventData{
			CommentID:  comment.ID.String(),
			AuthorID:   actorID,
			AuthorName: created.Author.Username,
			PostID:     req.PostID,
			PostTitle:  post.Title,
			OwnerID:    post.AuthorID.String(),
			OwnerEmail: post.Author.Email,
			Content:    comment.Content,
		},
	})

	s.logger.WithFields(map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    req.PostID,
	}).Info("Comment created successfully")

	return created, nil
}

// GetByPost returns the post's comments as a flat list, oldest first.
func (s *CommentService) GetByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	id, err := parseID(postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetByPostID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return comments, nil
}

// GetThread returns the post's comments assembled into the two-level
// display tree.
func (s *CommentService) GetThread(ctx context.Context, postID string) ([]*Thread, error) {
	comments, err := s.GetByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return AssembleThread(comments), nil
}

// AssembleThread shapes a flat comment list into ordered top-level
// threads with their replies attached in input order. A reply whose
// parent is itself a reply is dropped from the tree; the two-level
// flattening is a deliberate property of the display model. Pure, no
// I/O, re-derivable from the flat list at any time.
func AssembleThread(comments []*models.Comment) []*Thread {
	replies := make(map[uuid.UUID][]*models.Comment)
	for _, c := range comments {
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}

	threads := make([]*Thread, 0)
	for _, c := range comments {
		if c.ParentID != nil {
			continue
		}
		group := replies[c.ID]
		if group == nil {
			group = []*models.Comment{}
		}
		threads = append(threads, &Thread{Comment: c, Replies: group})
	}
	return threads
}

// Delete removes a comment. Author only.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID string) error {
	id, err := parseID(commentID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return ErrInternal(err)
	}
	if comment == nil {
		return ErrNotFound("comment not found")
	}

	if comment.AuthorID.String() != actorID {
		return ErrForbidden("not authorized to delete this comment")
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return ErrInternal(err)
	}

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventCommentDeleted,
		Timestamp: time.Now(),
		Comment: &queue.CommentEventData{
			CommentID: commentID,
			AuthorID:  actorID,
			PostID:    comment.PostID.String(),
		},
	})

	s.logger.WithFields(map[string]interface{}{
		"comment_id": commentID,
		"user_id":    actorID,
	}).Info("Comment deleted successfully")

	return nil
}

// ToggleLike flips the actor's like on a comment. Comment likes never
// produce a notification, unlike post likes.
func (s *CommentService) ToggleLike(ctx context.Context, actorID, commentID string) (*models.Comment, *LikeToggle, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, nil, err
	}

	id, err := parseID(commentID)
	if err != nil {
		return nil, nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, ErrInternal(err)
	}
	if comment == nil {
		return nil, nil, ErrNotFound("comment not found")
	}

	liked, err := s.likeRepo.HasLikedComment(ctx, actor, id)
	if err != nil {
		return nil, nil, ErrInternal(err)
	}

	if liked {
		if err := s.likeRepo.DeleteCommentLike(ctx, actor, id); err != nil {
			return nil, nil, ErrInternal(err)
		}
	} else {
		like := &models.CommentLike{UserID: actor, CommentID: id}
		if err := s.likeRepo.CreateCommentLike(ctx, like); err != nil {
			if err != gorm.ErrDuplicatedKey {
				return nil, nil, ErrInternal(err)
			}
		}
	}

	likes, err := s.likeRepo.CommentLikerIDs(ctx, id)
	if err != nil {
		return nil, nil, ErrInternal(err)
	}

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventLikeToggled,
		Timestamp: time.Now(),
		Like: &queue.LikeEventData{
			UserID:   actorID,
			TargetID: commentID,
			Target:   "comment",
			Liked:    !liked,
		},
	})

	return comment, &LikeToggle{Likes: likes, Liked: !liked}, nil
}

// CommentLikerIDs exposes the current liker set for response shaping.
func (s *CommentService) CommentLikerIDs(ctx context.Context, commentID uuid.UUID) ([]uuid.UUID, error) {
	likes, err := s.likeRepo.CommentLikerIDs(ctx, commentID)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return likes, nil
}

func (s *CommentService) publish(ctx context.Context, key string, event queue.Event) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish comment event")
	}
}
