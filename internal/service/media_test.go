package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"family_album/internal/apperr"
	"family_album/internal/hash"
	"family_album/internal/models"
	"family_album/internal/queue"
	"family_album/internal/repo"
)

type stubStorage struct {
	uploaded []string
	deleted  []string
}

func (s *stubStorage) Upload(ctx context.Context, reader io.Reader, size int64, folder, originalName, contentType string) (string, error) {
	key := folder + "/" + originalName
	s.uploaded = append(s.uploaded, key)
	return key, nil
}

func (s *stubStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + objectName, nil
}

func (s *stubStorage) Delete(ctx context.Context, objectName string) error {
	s.deleted = append(s.deleted, objectName)
	return nil
}

type captureFanout struct {
	jobs []queue.FanoutJob
}

func (f *captureFanout) EnqueueFanout(ctx context.Context, job queue.FanoutJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func createTestUser(t *testing.T, repository *repo.GormRepo, email, name, role string) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword("password1")
	require.NoError(t, err)
	user := models.User{Email: email, PasswordHash: pwHash, Name: name, Role: role}
	require.NoError(t, repository.CreateUser(context.Background(), &user))
	return &user
}

func newMediaService(t *testing.T) (*MediaService, *repo.GormRepo, *stubStorage, *captureFanout) {
	t.Helper()
	repository := repo.New(initTestDB(t))
	store := &stubStorage{}
	fanout := &captureFanout{}
	svc := &MediaService{Repo: repository, Storage: store, Fanout: fanout}
	return svc, repository, store, fanout
}

func photoInput(name string, data []byte) UploadInput {
	return UploadInput{
		FileName:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
	}
}

func TestUploadPhoto(t *testing.T) {
	svc, repository, store, fanout := newMediaService(t)
	ctx := context.Background()
	admin := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)
	createTestUser(t, repository, "viewer@x.com", "Viewer", models.RoleViewer)

	data := []byte("not-really-a-jpeg-but-that-is-fine")
	view, err := svc.Upload(ctx, admin.ID, photoInput("birthday.jpg", data))
	require.NoError(t, err)
	require.Equal(t, models.MediaTypePhoto, view.Type)
	require.Equal(t, "birthday.jpg", view.OriginalName)
	require.Equal(t, int64(len(data)), view.Size)
	require.Equal(t, admin.ID, view.UploaderID)
	require.Equal(t, "Admin", view.UploaderName)
	require.Equal(t, "https://storage.test/photos/birthday.jpg", view.URL)

	stored, err := repository.FindMediaByID(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "photos/birthday.jpg", stored.StoredPath)

	require.Len(t, store.uploaded, 1)
	require.Len(t, fanout.jobs, 1)
	require.Equal(t, view.ID, fanout.jobs[0].MediaID)
	require.Equal(t, admin.ID, fanout.jobs[0].UploaderID)
}

func TestUploadVideoFolder(t *testing.T) {
	svc, repository, store, _ := newMediaService(t)
	admin := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)

	in := UploadInput{
		FileName:    "trip.mp4",
		ContentType: "video/mp4",
		Size:        4,
		Reader:      bytes.NewReader([]byte("mp4!")),
	}
	view, err := svc.Upload(context.Background(), admin.ID, in)
	require.NoError(t, err)
	require.Equal(t, models.MediaTypeVideo, view.Type)
	require.Equal(t, []string{"videos/trip.mp4"}, store.uploaded)
}

func TestUploadRejectsViewer(t *testing.T) {
	svc, repository, store, _ := newMediaService(t)
	viewer := createTestUser(t, repository, "viewer@x.com", "Viewer", models.RoleViewer)

	_, err := svc.Upload(context.Background(), viewer.ID, photoInput("nope.jpg", []byte("x")))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeForbidden, ae.Code)
	require.Empty(t, store.uploaded)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, repository, _, _ := newMediaService(t)
	admin := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)

	in := UploadInput{
		FileName:    "malware.exe",
		ContentType: "application/octet-stream",
		Size:        4,
		Reader:      bytes.NewReader([]byte("bits")),
	}
	_, err := svc.Upload(context.Background(), admin.ID, in)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidRequest, ae.Code)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc, repository, _, _ := newMediaService(t)
	admin := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)

	in := UploadInput{FileName: "empty.jpg", ContentType: "image/jpeg", Size: 0, Reader: bytes.NewReader(nil)}
	_, err := svc.Upload(context.Background(), admin.ID, in)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidRequest, ae.Code)
}

func TestUploadManyPartialFailure(t *testing.T) {
	svc, repository, _, _ := newMediaService(t)
	admin := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)

	inputs := []UploadInput{
		photoInput("ok.jpg", []byte("good")),
		{FileName: "bad.exe", ContentType: "application/octet-stream", Size: 3, Reader: bytes.NewReader([]byte("bad"))},
		photoInput("also-ok.jpg", []byte("good too")),
	}
	result := svc.UploadMany(context.Background(), admin.ID, inputs)
	require.Len(t, result.Uploaded, 2)
	require.Len(t, result.Failed, 1)
	require.Equal(t, "bad.exe", result.Failed[0].FileName)
}

func TestListWithTypeFilter(t *testing.T) {
	svc, repository, _, _ := newMediaService(t)
	ctx := context.Background()
	admin := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)

	_, err := svc.Upload(ctx, admin.ID, photoInput("one.jpg", []byte("1")))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, admin.ID, UploadInput{
		FileName: "clip.mp4", ContentType: "video/mp4", Size: 1, Reader: bytes.NewReader([]byte("v")),
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, repo.MediaFilter{}, 1, 20, 0, 20, admin.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), all.Total)
	require.False(t, all.HasNext)
	require.False(t, all.HasPrev)

	photos, err := svc.List(ctx, repo.MediaFilter{Type: models.MediaTypePhoto}, 1, 20, 0, 20, admin.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), photos.Total)
	require.Equal(t, "one.jpg", photos.Content[0].OriginalName)
}

func TestDeletePermissions(t *testing.T) {
	svc, repository, store, _ := newMediaService(t)
	ctx := context.Background()
	admin := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)
	viewer := createTestUser(t, repository, "viewer@x.com", "Viewer", models.RoleViewer)

	view, err := svc.Upload(ctx, admin.ID, photoInput("keep.jpg", []byte("x")))
	require.NoError(t, err)

	// A viewer who is not the uploader cannot delete.
	err = svc.Delete(ctx, view.ID, viewer.ID)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeForbidden, ae.Code)

	// The uploader can, and the object goes with the row.
	require.NoError(t, svc.Delete(ctx, view.ID, admin.ID))
	require.Equal(t, []string{"photos/keep.jpg"}, store.deleted)

	gone, err := repository.FindMediaByID(ctx, view.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestDownloadURL(t *testing.T) {
	svc, repository, _, _ := newMediaService(t)
	ctx := context.Background()
	admin := createTestUser(t, repository, "admin@x.com", "Admin", models.RoleAdmin)

	view, err := svc.Upload(ctx, admin.ID, photoInput("dl.jpg", []byte("x")))
	require.NoError(t, err)

	url, err := svc.DownloadURL(ctx, view.ID, 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, "https://storage.test/photos/dl.jpg", url)

	_, err = svc.DownloadURL(ctx, "missing", 10*time.Minute)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeNotFound, ae.Code)
}
