package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/sourcefab/rfq-hub-go/internal/errors"
	"github.com/sourcefab/rfq-hub-go/internal/model"
)

// NotificationStore is the storage side of the notification path,
// implemented by repository.NotificationRepository.
type NotificationStore interface {
	CreateTx(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error)
	FindByRecipient(ctx context.Context, recipientUserID int64, limit, offset int) ([]model.Notification, error)
	CountByRecipient(ctx context.Context, recipientUserID int64) (int, error)
	MarkRead(ctx context.Context, id, recipientUserID int64) (int64, error)
	MarkAllRead(ctx context.Context, recipientUserID int64) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pusher is the live side, implemented by the hub. Content is the
// serialized notification row; the hub wraps it in a notification frame.
type Pusher interface {
	SendToUser(ctx context.Context, recipientUserID int64, content string) error
}

// NotificationBuilder assembles one notification: recipient and message
// are required, a link is optional.
type NotificationBuilder struct {
	recipientUserID int64
	message         string
	linkURL         *string
}

func NewNotification(recipientUserID int64, message string) *NotificationBuilder {
	return &NotificationBuilder{
		recipientUserID: recipientUserID,
		message:         message,
	}
}

func (b *NotificationBuilder) WithLink(linkURL string) *NotificationBuilder {
	b.linkURL = &linkURL
	return b
}

// Send persists the notification and then tries a live push. The row is
// committed before any push is attempted; once the commit has succeeded
// Send succeeds, whatever becomes of the push. An offline recipient
// fetches the row over REST later.
func (b *NotificationBuilder) Send(ctx context.Context, store NotificationStore, pusher Pusher) (*model.Notification, error) {
	if b.recipientUserID <= 0 {
		return nil, apperrors.MissingRequired("recipient")
	}
	if b.message == "" {
		return nil, apperrors.MissingRequired("message")
	}

	notification, err := store.CreateTx(ctx, model.CreateNotificationParams{
		RecipientUserID: b.recipientUserID,
		Message:         b.message,
		LinkURL:         b.linkURL,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		log.Error().Err(err).Int64("notificationId", notification.ID).Msg("failed to serialize notification for push")
		return notification, nil
	}

	if err := pusher.SendToUser(ctx, b.recipientUserID, string(payload)); err != nil {
		// Best-effort: the row is durable, the push is not.
		log.Warn().Err(err).Int64("userId", b.recipientUserID).Msg("notification push not enqueued")
	}

	return notification, nil
}

type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, claims *model.Claims, limit, offset int) ([]model.Notification, int, error) {
	notifications, err := s.store.FindByRecipient(ctx, claims.UserID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}

	total, err := s.store.CountByRecipient(ctx, claims.UserID)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}

	return notifications, total, nil
}

// MarkRead flips a single notification to read. A miss (wrong id, or a
// row owned by someone else) reports zero rows affected and is logged,
// not surfaced: the caller learns nothing about other users' rows.
func (s *NotificationService) MarkRead(ctx context.Context, claims *model.Claims, notificationID int64) (int64, error) {
	affected, err := s.store.MarkRead(ctx, notificationID, claims.UserID)
	if err != nil {
		return 0, apperrors.Database(err)
	}

	if affected == 0 {
		log.Warn().
			Int64("userId", claims.UserID).
			Int64("notificationId", notificationID).
			Msg("mark-as-read affected no rows (not found or not owned)")
	}

	return affected, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, claims *model.Claims) (int64, error) {
	affected, err := s.store.MarkAllRead(ctx, claims.UserID)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return affected, nil
}
