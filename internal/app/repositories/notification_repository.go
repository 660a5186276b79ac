package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/helpers"
	"github.com/tanmay/courtside/internal/pkg/logger"
)

// NotificationRepository handles database operations for in-app notifications
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a notification. Failures are logged but not fatal; a missed
// notification must never fail the operation that produced it.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "kind", "body", "is_read").
		Values(n.UserID, n.Kind, n.Body, false).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		logger.Warn().Err(err).Int64("userID", n.UserID).Str("kind", n.Kind).Msg("Failed to write notification")
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// CreateOnceToday inserts a notification unless the same user already got the
// same kind and body today. The renewal sweep runs hourly; this keeps it from
// nagging.
func (r *NotificationRepository) CreateOnceToday(ctx context.Context, n *models.Notification) error {
	cmdTag, err := r.db.Exec(ctx,
		`INSERT INTO notifications (user_id, kind, body, is_read)
		 SELECT $1, $2, $3, FALSE
		 WHERE NOT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND kind = $2 AND body = $3
			  AND created_at::date = CURRENT_DATE
		 )`,
		n.UserID, n.Kind, n.Body)
	if err != nil {
		logger.Warn().Err(err).Int64("userID", n.UserID).Str("kind", n.Kind).Msg("Failed to write notification")
		return fmt.Errorf("error creating notification: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceAlreadyExists
	}
	return nil
}

// GetForUser retrieves a user's notifications with pagination, newest first
func (r *NotificationRepository) GetForUser(ctx context.Context, userID int64, page, pageSize int) ([]*models.Notification, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	sql, args, err := r.sb.Select("id", "user_id", "kind", "body", "is_read", "created_at").
		Column("COUNT(*) OVER()").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	var total int64
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Body, &n.IsRead, &n.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// CountUnread counts a user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification read, scoped to its owner
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// MarkAllRead marks every unread notification of a user read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark all read query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking notifications read: %w", err)
	}

	return nil
}
