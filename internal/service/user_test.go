package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"family_album/internal/apperr"
	"family_album/internal/hash"
	"family_album/internal/models"
	"family_album/internal/repo"
)

func TestUpdateProfile(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &UserService{Repo: repository}
	ctx := context.Background()

	user := createTestUser(t, repository, "a@x.com", "Alice", models.RoleViewer)

	summary, err := svc.UpdateProfile(ctx, user.ID, "Alicia")
	require.NoError(t, err)
	require.Equal(t, "Alicia", summary.Name)

	_, err = svc.UpdateProfile(ctx, user.ID, "")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidRequest, ae.Code)
}

func TestChangePassword(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &UserService{Repo: repository}
	ctx := context.Background()

	user := createTestUser(t, repository, "a@x.com", "Alice", models.RoleViewer)

	// Wrong current password is rejected.
	err := svc.ChangePassword(ctx, user.ID, "wrong", "new-password")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidRequest, ae.Code)

	// Too-short replacement is rejected.
	err = svc.ChangePassword(ctx, user.ID, "password1", "short")
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidRequest, ae.Code)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "password1", "new-password"))

	updated, err := repository.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, hash.CheckPassword(updated.PasswordHash, "new-password"))
	require.False(t, hash.CheckPassword(updated.PasswordHash, "password1"))
}

func TestUpdateRole(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &UserService{Repo: repository}
	ctx := context.Background()

	user := createTestUser(t, repository, "a@x.com", "Alice", models.RoleViewer)

	summary, err := svc.UpdateRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, summary.Role)

	_, err = svc.UpdateRole(ctx, user.ID, "SUPERUSER")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidRequest, ae.Code)
}
