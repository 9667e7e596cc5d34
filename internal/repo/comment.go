package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"family_album/internal/models"
)

func (r *GormRepo) FindCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *GormRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.DB.WithContext(ctx).Create(comment).Error
}

func (r *GormRepo) DeleteComment(ctx context.Context, comment *models.Comment) error {
	return r.DB.WithContext(ctx).Delete(comment).Error
}

func (r *GormRepo) ListComments(ctx context.Context, mediaID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.DB.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *GormRepo) CountComments(ctx context.Context, mediaID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("media_id = ?", mediaID).
		Count(&count).Error
	return count, err
}
