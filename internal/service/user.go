package service

import (
	"context"

	"family_album/internal/apperr"
	"family_album/internal/hash"
	"family_album/internal/models"
	"family_album/internal/repo"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) GetByID(ctx context.Context, userID string) (*UserSummary, error) {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", userID)
	}
	summary := SummarizeUser(user)
	return &summary, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID, name string) (*UserSummary, error) {
	if name == "" {
		return nil, apperr.InvalidRequest("name is required")
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", userID)
	}

	user.Name = name
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	summary := SummarizeUser(user)
	return &summary, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.InvalidRequest("password must be at least 8 characters")
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User", userID)
	}
	if !hash.CheckPassword(user.PasswordHash, currentPassword) {
		return apperr.InvalidRequest("current password is incorrect")
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	return s.Repo.SaveUser(ctx, user)
}

func (s *UserService) UpdateRole(ctx context.Context, userID, role string) (*UserSummary, error) {
	if role != models.RoleAdmin && role != models.RoleViewer {
		return nil, apperr.InvalidRequest("unknown role: " + role)
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", userID)
	}

	user.Role = role
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	summary := SummarizeUser(user)
	return &summary, nil
}

func (s *UserService) List(ctx context.Context) ([]UserSummary, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]UserSummary, len(users))
	for i := range users {
		summaries[i] = SummarizeUser(&users[i])
	}
	return summaries, nil
}
