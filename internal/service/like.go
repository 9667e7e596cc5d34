package service

import (
	"context"

	"family_album/internal/apperr"
	"family_album/internal/models"
	"family_album/internal/repo"
)

type LikeService struct {
	Repo          *repo.GormRepo
	Notifications *NotificationService
}

type LikeResult struct {
	MediaID   string `json:"media_id"`
	IsLiked   bool   `json:"is_liked"`
	LikeCount int64  `json:"like_count"`
}

type LikeInfo struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	CreatedAt string `json:"created_at"`
}

// Toggle flips the caller's like on a media item and returns the new
// state plus the total count.
func (s *LikeService) Toggle(ctx context.Context, userID, mediaID string) (*LikeResult, error) {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", userID)
	}
	media, err := s.Repo.FindMediaByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, apperr.NotFound("Media", mediaID)
	}

	existing, err := s.Repo.FindLike(ctx, userID, mediaID)
	if err != nil {
		return nil, err
	}

	var isLiked bool
	if existing != nil {
		if err := s.Repo.DeleteLike(ctx, userID, mediaID); err != nil {
			return nil, err
		}
		isLiked = false
	} else {
		if err := s.Repo.CreateLike(ctx, &models.Like{UserID: userID, MediaID: mediaID}); err != nil {
			return nil, err
		}
		isLiked = true

		if s.Notifications != nil && media.UploaderID != userID {
			if err := s.Notifications.NotifyNewLike(ctx, media.UploaderID, user.Name, mediaID); err != nil {
				return nil, err
			}
		}
	}

	count, err := s.Repo.CountLikes(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{MediaID: mediaID, IsLiked: isLiked, LikeCount: count}, nil
}

func (s *LikeService) List(ctx context.Context, mediaID string) ([]LikeInfo, error) {
	media, err := s.Repo.FindMediaByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, apperr.NotFound("Media", mediaID)
	}

	likes, err := s.Repo.ListLikes(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	infos := make([]LikeInfo, 0, len(likes))
	for _, like := range likes {
		info := LikeInfo{UserID: like.UserID, CreatedAt: like.CreatedAt.Format("2006-01-02T15:04:05Z07:00")}
		if u, err := s.Repo.FindUserByID(ctx, like.UserID); err == nil && u != nil {
			info.UserName = u.Name
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *LikeService) Count(ctx context.Context, mediaID string) (int64, error) {
	return s.Repo.CountLikes(ctx, mediaID)
}
