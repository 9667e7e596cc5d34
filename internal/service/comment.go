package service

import (
	"context"
	"strings"

	"family_album/internal/apperr"
	"family_album/internal/models"
	"family_album/internal/repo"
)

const maxCommentLength = 500

type CommentService struct {
	Repo *repo.GormRepo
}

type CommentView struct {
	ID        string `json:"id"`
	MediaID   string `json:"media_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (s *CommentService) Create(ctx context.Context, userID, mediaID, content string) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidRequest("comment content is required")
	}
	if len(content) > maxCommentLength {
		return nil, apperr.InvalidRequest("comment content exceeds 500 characters")
	}

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

	comment := models.Comment{UserID: userID, MediaID: mediaID, Content: content}
	if err := s.Repo.CreateComment(ctx, &comment); err != nil {
		return nil, err
	}

	view := s.view(ctx, &comment)
	return &view, nil
}

func (s *CommentService) List(ctx context.Context, mediaID string) ([]CommentView, error) {
	comments, err := s.Repo.ListComments(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, s.view(ctx, &comments[i]))
	}
	return views, nil
}

// Delete removes a comment; only its author may do so.
func (s *CommentService) Delete(ctx context.Context, commentID, userID string) error {
	comment, err := s.Repo.FindCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.NotFound("Comment", commentID)
	}
	if comment.UserID != userID {
		return apperr.Forbidden("you can only delete your own comments")
	}
	return s.Repo.DeleteComment(ctx, comment)
}

func (s *CommentService) Count(ctx context.Context, mediaID string) (int64, error) {
	return s.Repo.CountComments(ctx, mediaID)
}

func (s *CommentService) view(ctx context.Context, comment *models.Comment) CommentView {
	view := CommentView{
		ID:        comment.ID,
		MediaID:   comment.MediaID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if u, err := s.Repo.FindUserByID(ctx, comment.UserID); err == nil && u != nil {
		view.UserName = u.Name
	}
	return view
}
