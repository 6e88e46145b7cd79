package service

import (
	"context"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// NotificationService reads and acknowledges persisted notifications.
// Creation happens through the dispatcher, never here.
type NotificationService struct {
	store storage.Store
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

// MarkRead flags a notification as read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	notification, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return Permissionf("notification belongs to another user")
	}
	return s.store.MarkNotificationRead(ctx, notificationID)
}
