package models

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "ADMIN"
	RoleViewer = "VIEWER"
)

const (
	MediaTypePhoto = "PHOTO"
	MediaTypeVideo = "VIDEO"
)

const (
	NotificationNewMedia = "NEW_MEDIA"
	NotificationNewLike  = "NEW_LIKE"
	NotificationSystem   = "SYSTEM"
)

// NewID returns a ULID string: opaque, unguessable and still sortable by
// creation time, so id ordering matches insertion ordering.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

type User struct {
	ID           string    `gorm:"primaryKey;size:26"       json:"id"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Name         string    `gorm:"not null"                 json:"name"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

type RefreshToken struct {
	ID        string    `gorm:"primaryKey;size:26"       json:"id"`
	Token     string    `gorm:"unique;not null;size:512" json:"token"`
	UserID    string    `gorm:"index;not null;size:26"   json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}

// Expired reports whether the persisted expiry has passed. This is the
// authoritative check during refresh, independent of the token's own
// exp claim.
func (r *RefreshToken) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

type Media struct {
	ID           string     `gorm:"primaryKey;size:26"     json:"id"`
	UploaderID   string     `gorm:"index;not null;size:26" json:"uploader_id"`
	Type         string     `gorm:"not null"               json:"type"`
	OriginalName string     `gorm:"not null"               json:"original_name"`
	StoredPath   string     `gorm:"not null"               json:"-"`
	Size         int64      `gorm:"not null"               json:"size"`
	MimeType     string     `gorm:"not null"               json:"mime_type"`
	Width        *int       `json:"width,omitempty"`
	Height       *int       `json:"height,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

type Like struct {
	ID        string    `gorm:"primaryKey;size:26"                               json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_like_user_media;not null;size:26" json:"user_id"`
	MediaID   string    `gorm:"uniqueIndex:idx_like_user_media;not null;size:26" json:"media_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	return nil
}

type Comment struct {
	ID        string    `gorm:"primaryKey;size:26"      json:"id"`
	UserID    string    `gorm:"index;not null;size:26"  json:"user_id"`
	MediaID   string    `gorm:"index;not null;size:26"  json:"media_id"`
	Content   string    `gorm:"not null;size:500"       json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

type Notification struct {
	ID        string    `gorm:"primaryKey;size:26"     json:"id"`
	UserID    string    `gorm:"index;not null;size:26" json:"user_id"`
	Type      string    `gorm:"not null"               json:"type"`
	Title     string    `gorm:"not null"               json:"title"`
	Message   string    `json:"message,omitempty"`
	MediaID   *string   `gorm:"size:26"                json:"media_id,omitempty"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}
