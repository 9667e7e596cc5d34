package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"family_album/internal/apperr"
	"family_album/internal/logging"
	"family_album/internal/metadata"
	"family_album/internal/models"
	"family_album/internal/queue"
	"family_album/internal/repo"
	"family_album/internal/service/search"
	"family_album/internal/storage"
)

const maxFileSize = 100 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true,
	"image/gif": true, "image/webp": true, "image/heic": true, "image/heif": true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4": true, "video/quicktime": true, "video/x-msvideo": true,
	"video/webm": true, "video/3gpp": true,
}

// ObjectStorage is what MediaService needs from the blob store.
type ObjectStorage interface {
	Upload(ctx context.Context, reader io.Reader, size int64, folder, originalName, contentType string) (string, error)
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectName string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

type FanoutQueue interface {
	EnqueueFanout(ctx context.Context, job queue.FanoutJob) error
}

type MediaIndex interface {
	Index(ctx context.Context, doc search.MediaDoc) error
	Delete(ctx context.Context, id string) error
}

// MediaService owns the upload pipeline and the gallery queries.
// Producer, Fanout and Index are optional collaborators; a nil one is
// skipped.
type MediaService struct {
	Repo     *repo.GormRepo
	Storage  ObjectStorage
	Producer EventPublisher
	Fanout   FanoutQueue
	Index    MediaIndex
}

type MediaView struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	URL          string     `json:"url"`
	OriginalName string     `json:"original_name"`
	Size         int64      `json:"size"`
	MimeType     string     `json:"mime_type"`
	Width        *int       `json:"width,omitempty"`
	Height       *int       `json:"height,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	UploaderID   string     `json:"uploader_id"`
	UploaderName string     `json:"uploader_name"`
	LikeCount    int64      `json:"like_count"`
	IsLiked      bool       `json:"is_liked"`
	CreatedAt    time.Time  `json:"created_at"`
}

type MediaList struct {
	Content []MediaView `json:"content"`
	Page    int         `json:"page"`
	Size    int         `json:"size"`
	Total   int64       `json:"total"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
}

type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type FailedUpload struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

type BulkUploadResult struct {
	Uploaded []MediaView    `json:"uploaded"`
	Failed   []FailedUpload `json:"failed"`
}

func (s *MediaService) Upload(ctx context.Context, uploaderID string, in UploadInput) (*MediaView, error) {
	l := logging.FromContext(ctx).With("svc", "media.upload")

	mediaType, err := validateUpload(in)
	if err != nil {
		return nil, err
	}

	uploader, err := s.Repo.FindUserByID(ctx, uploaderID)
	if err != nil {
		return nil, err
	}
	if uploader == nil {
		return nil, apperr.NotFound("User", uploaderID)
	}
	if uploader.Role != models.RoleAdmin {
		return nil, apperr.Forbidden("only admins can upload")
	}

	// The whole file is buffered so metadata extraction and the storage
	// write can both read it. Uploads are capped at 100MB.
	data, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, apperr.FileUpload("failed to read upload: " + err.Error())
	}
	if int64(len(data)) > maxFileSize {
		return nil, apperr.InvalidRequest("file exceeds the 100MB limit")
	}

	folder := "photos"
	if mediaType == models.MediaTypeVideo {
		folder = "videos"
	}

	storedPath, err := s.Storage.Upload(ctx, bytes.NewReader(data), int64(len(data)), folder, in.FileName, in.ContentType)
	if err != nil {
		return nil, apperr.FileUpload(err.Error())
	}

	media := models.Media{
		UploaderID:   uploaderID,
		Type:         mediaType,
		OriginalName: in.FileName,
		StoredPath:   storedPath,
		Size:         int64(len(data)),
		MimeType:     in.ContentType,
	}

	// Extraction failures never fail an upload.
	if mediaType == models.MediaTypePhoto {
		info := metadata.ExtractImage(data)
		media.Width = info.Width
		media.Height = info.Height
		media.TakenAt = info.TakenAt
	}

	if err := s.Repo.CreateMedia(ctx, &media); err != nil {
		return nil, err
	}

	l.Info("media uploaded", "media_id", media.ID, "type", mediaType, "size", media.Size)

	if s.Producer != nil {
		event := map[string]interface{}{
			"type":     "media_uploaded",
			"media_id": media.ID,
			"uploader": uploaderID,
			"mime":     in.ContentType,
		}
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.Producer.PublishEvent(pubCtx, "media_events", media.ID, event); err != nil {
			l.Error("kafka publish failed", "error", err)
		}
		cancel()
	}

	if s.Index != nil {
		if err := s.Index.Index(ctx, search.DocFromMedia(&media, uploader.Name)); err != nil {
			l.Error("search index failed", "media_id", media.ID, "error", err)
		}
	}

	if s.Fanout != nil {
		job := queue.FanoutJob{MediaID: media.ID, UploaderID: uploaderID, UploaderName: uploader.Name}
		if err := s.Fanout.EnqueueFanout(ctx, job); err != nil {
			l.Error("fanout enqueue failed", "media_id", media.ID, "error", err)
		}
	}

	return s.viewOf(ctx, &media, uploaderID)
}

// UploadMany uploads each file independently: one bad file does not
// abort the batch.
func (s *MediaService) UploadMany(ctx context.Context, uploaderID string, inputs []UploadInput) *BulkUploadResult {
	result := &BulkUploadResult{}
	for _, in := range inputs {
		view, err := s.Upload(ctx, uploaderID, in)
		if err != nil {
			result.Failed = append(result.Failed, FailedUpload{FileName: in.FileName, Error: err.Error()})
			continue
		}
		result.Uploaded = append(result.Uploaded, *view)
	}
	return result
}

func (s *MediaService) Get(ctx context.Context, mediaID, viewerID string) (*MediaView, error) {
	media, err := s.Repo.FindMediaByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, apperr.NotFound("Media", mediaID)
	}
	return s.viewOf(ctx, media, viewerID)
}

func (s *MediaService) List(ctx context.Context, filter repo.MediaFilter, page, size, offset, limit int, viewerID string) (*MediaList, error) {
	items, total, err := s.Repo.ListMedia(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}

	views := make([]MediaView, 0, len(items))
	for i := range items {
		view, err := s.viewOf(ctx, &items[i], viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return &MediaList{
		Content: views,
		Page:    page,
		Size:    limit,
		Total:   total,
		HasNext: int64(offset+limit) < total,
		HasPrev: page > 1,
	}, nil
}

func (s *MediaService) DistinctDates(ctx context.Context) ([]string, error) {
	return s.Repo.DistinctMediaDates(ctx)
}

// Delete removes the object, the row, and the search document. Allowed
// for the uploader and for admins.
func (s *MediaService) Delete(ctx context.Context, mediaID, userID string) error {
	l := logging.FromContext(ctx).With("svc", "media.delete")

	media, err := s.Repo.FindMediaByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if media == nil {
		return apperr.NotFound("Media", mediaID)
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User", userID)
	}
	if media.UploaderID != userID && user.Role != models.RoleAdmin {
		return apperr.Forbidden("no permission to delete this item")
	}

	if err := s.Storage.Delete(ctx, media.StoredPath); err != nil {
		return err
	}
	if err := s.Repo.DeleteMedia(ctx, media); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, media.ID); err != nil {
			l.Error("search deindex failed", "media_id", media.ID, "error", err)
		}
	}
	if s.Producer != nil {
		event := map[string]interface{}{"type": "media_deleted", "media_id": media.ID, "user": userID}
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.Producer.PublishEvent(pubCtx, "media_events", media.ID, event); err != nil {
			l.Error("kafka publish failed", "error", err)
		}
		cancel()
	}

	l.Info("media deleted", "media_id", mediaID, "user_id", userID)
	return nil
}

func (s *MediaService) DownloadURL(ctx context.Context, mediaID string, expiry time.Duration) (string, error) {
	media, err := s.Repo.FindMediaByID(ctx, mediaID)
	if err != nil {
		return "", err
	}
	if media == nil {
		return "", apperr.NotFound("Media", mediaID)
	}
	return s.Storage.PresignedURL(ctx, media.StoredPath, expiry)
}

func validateUpload(in UploadInput) (string, error) {
	if in.Size == 0 {
		return "", apperr.InvalidRequest("file is empty")
	}
	if in.Size > maxFileSize {
		return "", apperr.InvalidRequest("file exceeds the 100MB limit")
	}
	switch {
	case allowedImageTypes[in.ContentType]:
		return models.MediaTypePhoto, nil
	case allowedVideoTypes[in.ContentType]:
		return models.MediaTypeVideo, nil
	default:
		return "", apperr.InvalidRequest("unsupported file type: " + in.ContentType)
	}
}

func (s *MediaService) viewOf(ctx context.Context, media *models.Media, viewerID string) (*MediaView, error) {
	url, err := s.Storage.PresignedURL(ctx, media.StoredPath, storage.DefaultURLExpiry)
	if err != nil {
		return nil, err
	}

	likeCount, err := s.Repo.CountLikes(ctx, media.ID)
	if err != nil {
		return nil, err
	}
	isLiked := false
	if viewerID != "" {
		isLiked, err = s.Repo.LikeExists(ctx, viewerID, media.ID)
		if err != nil {
			return nil, err
		}
	}

	uploaderName := ""
	if u, err := s.Repo.FindUserByID(ctx, media.UploaderID); err == nil && u != nil {
		uploaderName = u.Name
	}

	return &MediaView{
		ID:           media.ID,
		Type:         media.Type,
		URL:          url,
		OriginalName: media.OriginalName,
		Size:         media.Size,
		MimeType:     media.MimeType,
		Width:        media.Width,
		Height:       media.Height,
		Duration:     media.Duration,
		TakenAt:      media.TakenAt,
		UploaderID:   media.UploaderID,
		UploaderName: uploaderName,
		LikeCount:    likeCount,
		IsLiked:      isLiked,
		CreatedAt:    media.CreatedAt,
	}, nil
}
