package services

import (
	"context"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/pkg/logger"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *logger.Logger
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, logger *logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List returns the receiver's notifications newest first, sender and
// related post resolved.
func (s *NotificationService) List(ctx context.Context, receiverID string) ([]*models.Notification, error) {
	id, err := parseID(receiverID)
	if err != nil {
		return nil, err
	}

	notifications, err := s.notificationRepo.GetByReceiver(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return notifications, nil
}

// MarkRead flips one notification to read. Only the receiver may do so.
func (s *NotificationService) MarkRead(ctx context.Context, actorID, notificationID string) (*models.Notification, error) {
	id, err := parseID(notificationID)
	if err != nil {
		return nil, err
	}

	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if notification == nil {
		return nil, ErrNotFound("notification not found")
	}

	if notification.ReceiverID.String() != actorID {
		return nil, ErrForbidden("not authorized to update this notification")
	}

	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return nil, ErrInternal(err)
	}

	notification.IsRead = true
	return notification, nil
}

// MarkAllRead flips every unread notification for the receiver. A no-op
// when nothing is unread.
func (s *NotificationService) MarkAllRead(ctx context.Context, receiverID string) error {
	id, err := parseID(receiverID)
	if err != nil {
		return err
	}

	if err := s.notificationRepo.MarkAllRead(ctx, id); err != nil {
		return ErrInternal(err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, receiverID string) (int64, error) {
	id, err := parseID(receiverID)
	if err != nil {
		return 0, err
	}

	count, err := s.notificationRepo.CountUnread(ctx, id)
	if err != nil {
		return 0, ErrInternal(err)
	}
	return count, nil
}
