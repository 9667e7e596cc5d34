package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"family_album/internal/apperr"
	"family_album/internal/models"
	"family_album/internal/repo"
)

func TestCreateComment(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &CommentService{Repo: repository}
	ctx := context.Background()

	uploader := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)
	author := createTestUser(t, repository, "viewer@x.com", "Viewer", models.RoleViewer)
	media := createTestMedia(t, repository, uploader.ID)

	view, err := svc.Create(ctx, author.ID, media.ID, "  lovely shot  ")
	require.NoError(t, err)
	require.Equal(t, "lovely shot", view.Content)
	require.Equal(t, "Viewer", view.UserName)

	views, err := svc.List(ctx, media.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
}

func TestCreateCommentValidation(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &CommentService{Repo: repository}
	ctx := context.Background()

	uploader := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)
	media := createTestMedia(t, repository, uploader.ID)

	_, err := svc.Create(ctx, uploader.ID, media.ID, "   ")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidRequest, ae.Code)

	_, err = svc.Create(ctx, uploader.ID, media.ID, strings.Repeat("x", 501))
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidRequest, ae.Code)

	_, err = svc.Create(ctx, uploader.ID, "missing", "hello")
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeNotFound, ae.Code)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &CommentService{Repo: repository}
	ctx := context.Background()

	uploader := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)
	author := createTestUser(t, repository, "a@x.com", "Author", models.RoleViewer)
	other := createTestUser(t, repository, "b@x.com", "Other", models.RoleViewer)
	media := createTestMedia(t, repository, uploader.ID)

	view, err := svc.Create(ctx, author.ID, media.ID, "mine")
	require.NoError(t, err)

	err = svc.Delete(ctx, view.ID, other.ID)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeForbidden, ae.Code)

	require.NoError(t, svc.Delete(ctx, view.ID, author.ID))

	count, err := svc.Count(ctx, media.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}
