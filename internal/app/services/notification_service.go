package services

import (
	"context"

	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/repositories"
)

// NotificationService defines the interface for in-app notifications
type NotificationService interface {
	List(ctx context.Context, userID int64, page, pageSize int) ([]*models.Notification, int64, int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// notificationServiceImpl implements the NotificationService interface
type notificationServiceImpl struct {
	notificationRepo *repositories.NotificationRepository
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(notificationRepo *repositories.NotificationRepository) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo}
}

// List retrieves a user's notifications plus the unread count
func (s *notificationServiceImpl) List(ctx context.Context, userID int64, page, pageSize int) ([]*models.Notification, int64, int64, error) {
	notifications, total, err := s.notificationRepo.GetForUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

// MarkRead marks one notification read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every notification of a user read
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
