package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"family_album/internal/models"
)

// MediaFilter narrows a gallery listing. Zero values mean "no filter".
type MediaFilter struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

func (r *GormRepo) FindMediaByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &media, nil
}

func (r *GormRepo) CreateMedia(ctx context.Context, media *models.Media) error {
	return r.DB.WithContext(ctx).Create(media).Error
}

func (r *GormRepo) DeleteMedia(ctx context.Context, media *models.Media) error {
	return r.DB.WithContext(ctx).Delete(media).Error
}

func (r *GormRepo) ListMedia(ctx context.Context, filter MediaFilter, offset, limit int) ([]models.Media, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Media{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at < ?", *filter.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Media
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// DistinctMediaDates returns the calendar days having at least one item,
// newest first. The gallery uses it to render date group headers.
func (r *GormRepo) DistinctMediaDates(ctx context.Context) ([]string, error) {
	var dates []string
	err := r.DB.WithContext(ctx).Model(&models.Media{}).
		Distinct("date(created_at)").
		Order("date(created_at) DESC").
		Pluck("date(created_at)", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}
