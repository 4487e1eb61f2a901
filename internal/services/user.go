package services

import (
	"context"
	"time"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/pkg/logger"
	"github.com/inkwell/inkwell/pkg/queue"
)

type UserService struct {
	userRepo         *repository.UserRepository
	followRepo       *repository.FollowRepository
	notificationRepo *repository.NotificationRepository
	producer         *queue.KafkaProducer
	logger           *logger.Logger
}

func NewUserService(userRepo *repository.UserRepository, followRepo *repository.FollowRepository, notificationRepo *repository.NotificationRepository, producer *queue.KafkaProducer, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo:         userRepo,
		followRepo:       followRepo,
		notificationRepo: notificationRepo,
		producer:         producer,
		logger:           logger,
	}
}

type UpdateProfileRequest struct {
	Bio    *string `json:"bio" binding:"omitempty,max=500"`
	Avatar *string `json:"avatar"`
}

// Profile is a user together with the resolved follower and following
// user lists.
type Profile struct {
	User      *models.User
	Followers []*models.User
	Following []*models.User
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user == nil {
		return nil, ErrNotFound("user not found")
	}

	return s.resolveProfile(ctx, user)
}

func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user == nil {
		return nil, ErrNotFound("user not found")
	}

	return s.resolveProfile(ctx, user)
}

func (s *UserService) resolveProfile(ctx context.Context, user *models.User) (*Profile, error) {
	followers, err := s.followRepo.GetFollowers(ctx, user.ID)
	if err != nil {
		return nil, ErrInternal(err)
	}
	following, err := s.followRepo.GetFollowing(ctx, user.ID)
	if err != nil {
		return nil, ErrInternal(err)
	}

	return &Profile{User: user, Followers: followers, Following: following}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actorID, userID string, req *UpdateProfileRequest) (*models.User, error) {
	if actorID != userID {
		return nil, ErrForbidden("cannot edit another user's profile")
	}

	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user == nil {
		return nil, ErrNotFound("user not found")
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, ErrInternal(err)
	}

	s.logger.WithField("user_id", user.ID).Info("Profile updated successfully")
	return user, nil
}

// DeleteAccount removes the user, every follow edge touching them and
// their notifications. Authored posts and comments are retained.
func (s *UserService) DeleteAccount(ctx context.Context, actorID, userID string) error {
	if actorID != userID {
		return ErrForbidden("cannot delete another user's account")
	}

	id, err := parseID(userID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return ErrInternal(err)
	}
	if user == nil {
		return ErrNotFound("user not found")
	}

	if err := s.followRepo.DeleteByUser(ctx, id); err != nil {
		return ErrInternal(err)
	}
	if err := s.notificationRepo.DeleteByUser(ctx, id); err != nil {
		return ErrInternal(err)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return ErrInternal(err)
	}

	s.publish(ctx, userID, queue.Event{
		Type:      queue.EventUserDeleted,
		Timestamp: time.Now(),
		User: &queue.UserEventData{
			UserID:   userID,
			Username: user.Username,
		},
	})

	s.logger.WithField("user_id", userID).Info("User account deleted")
	return nil
}

// Follow adds the directed edge actor -> target and notifies the target.
// Following yourself or a missing user is rejected; an existing edge is
// reported distinctly ("already following") and produces no side effects.
func (s *UserService) Follow(ctx context.Context, actorID, targetID string) error {
	actor, err := parseID(actorID)
	if err != nil {
		return err
	}
	target, err := parseID(targetID)
	if err != nil {
		return err
	}

	if actor == target {
		return ErrConflict("invalid follow request")
	}

	targetUser, err := s.userRepo.GetByID(ctx, target)
	if err != nil {
		return ErrInternal(err)
	}
	if targetUser == nil {
		return ErrConflict("invalid follow request")
	}

	existing, err := s.followRepo.Get(ctx, actor, target)
	if err != nil {
		return ErrInternal(err)
	}
	if existing != nil {
		return ErrConflict("already following")
	}

	follow := &models.Follow{
		FollowerID:  actor,
		FollowingID: target,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return ErrInternal(err)
	}

	if err := s.userRepo.UpdateFollowingCount(ctx, actor, 1); err != nil {
		s.logger.WithError(err).Error("Failed to update following count")
	}
	if err := s.userRepo.UpdateFollowersCount(ctx, target, 1); err != nil {
		s.logger.WithError(err).Error("Failed to update followers count")
	}

	// Notification write is best-effort: a failure never unwinds the
	// follow edge.
	notification := &models.Notification{
		Kind:       models.NotificationFollow,
		SenderID:   actor,
		ReceiverID: target,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.WithError(err).Error("Failed to create follow notification")
	}

	actorUser, err := s.userRepo.GetByID(ctx, actor)
	if err != nil {
		s.logger.WithError(err).Error("Failed to resolve follower for event")
	}
	followerName := ""
	if actorUser != nil {
		followerName = actorUser.Username
	}

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventFollowCreated,
		Timestamp: follow.CreatedAt,
		Follow: &queue.FollowEventData{
			FollowerID:     actorID,
			FollowerName:   followerName,
			FollowingID:    targetID,
			FollowingEmail: targetUser.Email,
			FollowingName:  targetUser.Username,
		},
	})

	s.logger.WithFields(map[string]interface{}{
		"follower_id":  actorID,
		"following_id": targetID,
	}).Info("User followed successfully")

	return nil
}

func (s *UserService) Unfollow(ctx context.Context, actorID, targetID string) error {
	actor, err := parseID(actorID)
	if err != nil {
		return err
	}
	target, err := parseID(targetID)
	if err != nil {
		return err
	}

	existing, err := s.followRepo.Get(ctx, actor, target)
	if err != nil {
		return ErrInternal(err)
	}
	if existing == nil {
		return ErrConflict("you are not following this user")
	}

	if err := s.followRepo.Delete(ctx, actor, target); err != nil {
		return ErrInternal(err)
	}

	if err := s.userRepo.UpdateFollowingCount(ctx, actor, -1); err != nil {
		s.logger.WithError(err).Error("Failed to update following count")
	}
	if err := s.userRepo.UpdateFollowersCount(ctx, target, -1); err != nil {
		s.logger.WithError(err).Error("Failed to update followers count")
	}

	s.publish(ctx, actorID, queue.Event{
		Type:      queue.EventFollowRemoved,
		Timestamp: time.Now(),
		Follow: &queue.FollowEventData{
			FollowerID:  actorID,
			FollowingID: targetID,
		},
	})

	s.logger.WithFields(map[string]interface{}{
		"follower_id":  actorID,
		"following_id": targetID,
	}).Info("User unfollowed successfully")

	return nil
}

func (s *UserService) GetFollowers(ctx context.Context, userID string) ([]*models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user == nil {
		return nil, ErrNotFound("user not found")
	}

	followers, err := s.followRepo.GetFollowers(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return followers, nil
}

func (s *UserService) GetFollowing(ctx context.Context, userID string) ([]*models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user == nil {
		return nil, ErrNotFound("user not found")
	}

	following, err := s.followRepo.GetFollowing(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return following, nil
}

func (s *UserService) Search(ctx context.Context, query string, offset, limit int) ([]*models.User, error) {
	if query == "" {
		return nil, ErrValidation("missing search query")
	}

	users, err := s.userRepo.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return users, nil
}

func (s *UserService) publish(ctx context.Context, key string, event queue.Event) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish user event")
	}
}
