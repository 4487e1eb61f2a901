package workers

import (
	"context"
	"fmt"

	"github.com/inkwell/inkwell/pkg/logger"
	"github.com/inkwell/inkwell/pkg/mailer"
	"github.com/inkwell/inkwell/pkg/queue"
)

// NotifierWorker consumes the activity stream and emails users about
// follows and comments. Delivery is at-most-once: a failed send is
// logged and the event is skipped. In-app notifications are written
// synchronously by the services and do not pass through here.
type NotifierWorker struct {
	consumer *queue.KafkaConsumer
	mailer   *mailer.Mailer
	logger   *logger.Logger
}

func NewNotifierWorker(consumer *queue.KafkaConsumer, mailer *mailer.Mailer, logger *logger.Logger) *NotifierWorker {
	return &NotifierWorker{
		consumer: consumer,
		mailer:   mailer,
		logger:   logger,
	}
}

func (w *NotifierWorker) Start(ctx context.Context) error {
	w.logger.Info("Notifier worker started")
	return w.consumer.Subscribe(ctx, w.handle)
}

func (w *NotifierWorker) Stop() error {
	return w.consumer.Close()
}

func (w *NotifierWorker) handle(event queue.Event) error {
	switch event.Type {
	case queue.EventFollowCreated:
		return w.handleFollow(event)
	case queue.EventCommentCreated:
		return w.handleComment(event)
	default:
		return nil
	}
}

func (w *NotifierWorker) handleFollow(event queue.Event) error {
	data := event.Follow
	if data == nil || data.FollowingEmail == "" {
		return nil
	}

	subject := "You have a new follower"
	body := fmt.Sprintf("<p><b>%s</b> started following you.</p>", data.FollowerName)

	if err := w.mailer.Send(data.FollowingEmail, subject, body); err != nil {
		w.logger.WithError(err).WithField("receiver", data.FollowingID).
			Error("Failed to send follow email")
		return nil
	}

	w.logger.WithField("receiver", data.FollowingID).Info("Follow email sent")
	return nil
}

func (w *NotifierWorker) handleComment(event queue.Event) error {
	data := event.Comment
	if data == nil || data.OwnerEmail == "" {
		return nil
	}
	// Never email an author about their own comment.
	if data.AuthorID == data.OwnerID {
		return nil
	}

	subject := fmt.Sprintf("New comment on %q", data.PostTitle)
	body := fmt.Sprintf("<p><b>%s</b> commented on your post:</p><blockquote>%s</blockquote>",
		data.AuthorName, data.Content)

	if err := w.mailer.Send(data.OwnerEmail, subject, body); err != nil {
		w.logger.WithError(err).WithField("receiver", data.OwnerID).
			Error("Failed to send comment email")
		return nil
	}

	w.logger.WithField("receiver", data.OwnerID).Info("Comment email sent")
	return nil
}
