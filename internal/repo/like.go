package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"family_album/internal/models"
)

func (r *GormRepo) FindLike(ctx context.Context, userID, mediaID string) (*models.Like, error) {
	var like models.Like
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *GormRepo) CreateLike(ctx context.Context, like *models.Like) error {
	return r.DB.WithContext(ctx).Create(like).Error
}

func (r *GormRepo) DeleteLike(ctx context.Context, userID, mediaID string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Delete(&models.Like{}).Error
}

func (r *GormRepo) CountLikes(ctx context.Context, mediaID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Like{}).
		Where("media_id = ?", mediaID).
		Count(&count).Error
	return count, err
}

func (r *GormRepo) LikeExists(ctx context.Context, userID, mediaID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) ListLikes(ctx context.Context, mediaID string) ([]models.Like, error) {
	var likes []models.Like
	err := r.DB.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}
