package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"family_album/internal/models"
)

func (r *GormRepo) FindRefreshByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *GormRepo) CreateRefresh(ctx context.Context, record *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

func (r *GormRepo) DeleteRefresh(ctx context.Context, record *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Delete(record).Error
}

func (r *GormRepo) DeleteRefreshByToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

func (r *GormRepo) DeleteRefreshByUser(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

func (r *GormRepo) DeleteExpiredRefresh(ctx context.Context, now time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

// RotateRefresh deletes the used token row and records its replacement
// in one transaction, so a crash or a concurrent retry can never leave
// both valid at once. The delete reports how many rows it removed: zero
// means another request already rotated this token.
func (r *GormRepo) RotateRefresh(ctx context.Context, oldToken string, replacement *models.RefreshToken) (bool, error) {
	rotated := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("token = ?", oldToken).Delete(&models.RefreshToken{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(replacement).Error; err != nil {
			return err
		}
		rotated = true
		return nil
	})
	return rotated, err
}

func (r *GormRepo) CountRefreshByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
