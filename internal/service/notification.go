package service

import (
	"context"
	"fmt"

	"family_album/internal/apperr"
	"family_album/internal/logging"
	"family_album/internal/models"
	"family_album/internal/repo"
)

type NotificationService struct {
	Repo *repo.GormRepo
}

type NotificationList struct {
	Content     []models.Notification `json:"content"`
	Page        int                   `json:"page"`
	Size        int                   `json:"size"`
	Total       int64                 `json:"total"`
	UnreadCount int64                 `json:"unread_count"`
}

func (s *NotificationService) List(ctx context.Context, userID string, page, size, offset, limit int) (*NotificationList, error) {
	items, total, err := s.Repo.ListNotifications(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.Repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationList{
		Content:     items,
		Page:        page,
		Size:        size,
		Total:       total,
		UnreadCount: unread,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	notification, err := s.Repo.FindNotificationByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification == nil {
		return apperr.NotFound("Notification", notificationID)
	}
	if notification.UserID != userID {
		return apperr.Forbidden("not your notification")
	}
	return s.Repo.MarkNotificationRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.Repo.MarkAllNotificationsRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnreadNotifications(ctx, userID)
}

// NotifyNewMedia creates a NEW_MEDIA notification for every user except
// the uploader.
func (s *NotificationService) NotifyNewMedia(ctx context.Context, mediaID, uploaderID, uploaderName string) error {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return err
	}

	var notifications []models.Notification
	for _, u := range users {
		if u.ID == uploaderID {
			continue
		}
		notifications = append(notifications, models.Notification{
			UserID:  u.ID,
			Type:    models.NotificationNewMedia,
			Title:   fmt.Sprintf("%s uploaded a new photo/video", uploaderName),
			MediaID: &mediaID,
		})
	}

	if err := s.Repo.CreateNotifications(ctx, notifications); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("new media notifications created",
		"media_id", mediaID, "count", len(notifications))
	return nil
}

// NotifyNewLike tells the uploader their item was liked. Self-likes are
// skipped by the caller.
func (s *NotificationService) NotifyNewLike(ctx context.Context, uploaderID, likerName, mediaID string) error {
	notification := models.Notification{
		UserID:  uploaderID,
		Type:    models.NotificationNewLike,
		Title:   fmt.Sprintf("%s liked your photo/video", likerName),
		MediaID: &mediaID,
	}
	return s.Repo.CreateNotification(ctx, &notification)
}
