package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"family_album/internal/models"
)

func (r *GormRepo) FindNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *GormRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.DB.WithContext(ctx).Create(notification).Error
}

func (r *GormRepo) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&notifications).Error
}

func (r *GormRepo) ListNotifications(ctx context.Context, userID string, offset, limit int) ([]models.Notification, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notification
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *GormRepo) MarkNotificationRead(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *GormRepo) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
