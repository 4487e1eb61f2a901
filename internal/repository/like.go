package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkwell/inkwell/internal/models"
	"gorm.io/gorm"
)

// LikeRepository covers set membership for both post and comment likes.
// The unique pair indexes make add/remove idempotent per user, so two
// racing likes collapse into one row instead of a lost update.
type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) CreatePostLike(ctx context.Context, like *models.PostLike) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return err
		}
		return fmt.Errorf("failed to create post like: %w", err)
	}
	return nil
}

func (r *LikeRepository) DeletePostLike(ctx context.Context, userID, postID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostLike{}).Error; err != nil {
		return fmt.Errorf("failed to delete post like: %w", err)
	}
	return nil
}

func (r *LikeRepository) HasLikedPost(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check post like status: %w", err)
	}
	return count > 0, nil
}

// PostLikerIDs returns the ids of every user who likes the post, oldest
// like first.
func (r *LikeRepository) PostLikerIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get post likers: %w", err)
	}
	return ids, nil
}

func (r *LikeRepository) CreateCommentLike(ctx context.Context, like *models.CommentLike) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return err
		}
		return fmt.Errorf("failed to create comment like: %w", err)
	}
	return nil
}

func (r *LikeRepository) DeleteCommentLike(ctx context.Context, userID, commentID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentLike{}).Error; err != nil {
		return fmt.Errorf("failed to delete comment like: %w", err)
	}
	return nil
}

func (r *LikeRepository) HasLikedComment(ctx context.Context, userID, commentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check comment like status: %w", err)
	}
	return count > 0, nil
}

func (r *LikeRepository) CommentLikerIDs(ctx context.Context, commentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get comment likers: %w", err)
	}
	return ids, nil
}
