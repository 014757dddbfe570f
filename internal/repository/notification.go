package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sourcefab/rfq-hub-go/internal/database"
	"github.com/sourcefab/rfq-hub-go/internal/model"
)

type NotificationRepository interface {
	// CreateTx inserts a notification and reads the populated row back
	// inside a single transaction. The returned row is committed before
	// CreateTx returns, so a live push attempted afterwards can never
	// reference an uncommitted notification.
	CreateTx(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error)
	FindByRecipient(ctx context.Context, recipientUserID int64, limit, offset int) ([]model.Notification, error)
	CountByRecipient(ctx context.Context, recipientUserID int64) (int, error)
	MarkRead(ctx context.Context, id, recipientUserID int64) (int64, error)
	MarkAllRead(ctx context.Context, recipientUserID int64) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepo struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateTx(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &n, `
			INSERT INTO notifications (recipient_user_id, message, link_url)
			VALUES ($1, $2, $3)
			RETURNING *
		`, params.RecipientUserID, params.Message, params.LinkURL)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) FindByRecipient(ctx context.Context, recipientUserID int64, limit, offset int) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT * FROM notifications
		WHERE recipient_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, recipientUserID, limit, offset)
	return notifications, err
}

func (r *notificationRepo) CountByRecipient(ctx context.Context, recipientUserID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications WHERE recipient_user_id = $1
	`, recipientUserID)
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, recipientUserID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND recipient_user_id = $2 AND is_read = FALSE
	`, id, recipientUserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientUserID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE recipient_user_id = $1 AND is_read = FALSE
	`, recipientUserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE is_read = TRUE AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
