package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"family_album/internal/apperr"
	"family_album/internal/models"
	"family_album/internal/repo"
)

func TestNotifyNewMediaExcludesUploader(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &NotificationService{Repo: repository}
	ctx := context.Background()

	uploader := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)
	viewerA := createTestUser(t, repository, "a@x.com", "A", models.RoleViewer)
	viewerB := createTestUser(t, repository, "b@x.com", "B", models.RoleViewer)
	media := createTestMedia(t, repository, uploader.ID)

	require.NoError(t, svc.NotifyNewMedia(ctx, media.ID, uploader.ID, uploader.Name))

	for _, viewer := range []*models.User{viewerA, viewerB} {
		unread, err := svc.UnreadCount(ctx, viewer.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), unread)
	}

	unread, err := svc.UnreadCount(ctx, uploader.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), unread)
}

func TestMarkReadOwnership(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &NotificationService{Repo: repository}
	ctx := context.Background()

	owner := createTestUser(t, repository, "a@x.com", "A", models.RoleViewer)
	other := createTestUser(t, repository, "b@x.com", "B", models.RoleViewer)

	notification := models.Notification{
		UserID: owner.ID,
		Type:   models.NotificationSystem,
		Title:  "welcome",
	}
	require.NoError(t, repository.CreateNotification(ctx, &notification))

	err := svc.MarkRead(ctx, notification.ID, other.ID)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeForbidden, ae.Code)

	require.NoError(t, svc.MarkRead(ctx, notification.ID, owner.ID))

	unread, err := svc.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), unread)
}

func TestMarkAllRead(t *testing.T) {
	repository := repo.New(initTestDB(t))
	svc := &NotificationService{Repo: repository}
	ctx := context.Background()

	owner := createTestUser(t, repository, "a@x.com", "A", models.RoleViewer)
	for i := 0; i < 3; i++ {
		n := models.Notification{UserID: owner.ID, Type: models.NotificationSystem, Title: "note"}
		require.NoError(t, repository.CreateNotification(ctx, &n))
	}

	require.NoError(t, svc.MarkAllRead(ctx, owner.ID))

	list, err := svc.List(ctx, owner.ID, 1, 20, 0, 20)
	require.NoError(t, err)
	require.Equal(t, int64(3), list.Total)
	require.Equal(t, int64(0), list.UnreadCount)
	for _, n := range list.Content {
		require.True(t, n.IsRead)
	}
}
