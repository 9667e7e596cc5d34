package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"family_album/internal/apperr"
	"family_album/internal/models"
	"family_album/internal/repo"
	"family_album/internal/tokens"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Media{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
	)
	require.NoError(t, err)
	return db
}

func newAuthService(t *testing.T) (*AuthService, *repo.GormRepo) {
	t.Helper()
	repository := repo.New(initTestDB(t))
	codec := tokens.NewCodec([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour)
	return &AuthService{Repo: repository, Codec: codec}, repository
}

func TestRegister(t *testing.T) {
	svc, repository := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, "a@x.com", result.User.Email)
	require.Equal(t, "Alice", result.User.Name)
	require.Equal(t, models.RoleViewer, result.User.Role)
	require.NotEmpty(t, result.User.ID)

	// The refresh token is persisted.
	record, err := repository.FindRefreshByToken(ctx, result.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, result.User.ID, record.UserID)

	// Plaintext never hits the store.
	user, err := repository.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotEqual(t, "password1", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repository := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "password2", "Mallory")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeDuplicate, ae.Code)

	count, err := repository.CountUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestLoginGenericFailure(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nonexistent@x.com", "anything")
	_, errWrongPw := svc.Login(ctx, "a@x.com", "wrong-password")

	var ae1, ae2 *apperr.Error
	require.ErrorAs(t, errUnknown, &ae1)
	require.ErrorAs(t, errWrongPw, &ae2)

	// Identical code and message: no user enumeration.
	require.Equal(t, apperr.CodeUnauthorized, ae1.Code)
	require.Equal(t, ae1.Code, ae2.Code)
	require.Equal(t, ae1.Message, ae2.Message)
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)

	login, err := svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)
	require.NotEqual(t, reg.RefreshToken, login.RefreshToken)
	require.Equal(t, reg.User.ID, login.User.ID)
}

func TestRefreshRotation(t *testing.T) {
	svc, repository := newAuthService(t)
	ctx := context.Background()

	login, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	require.NotEmpty(t, refreshed.AccessToken)

	// The old token is one-time use.
	_, err = svc.Refresh(ctx, login.RefreshToken)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeUnauthorized, ae.Code)

	// The old row is gone, the new one is present.
	old, err := repository.FindRefreshByToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.Nil(t, old)
	current, err := repository.FindRefreshByToken(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, current)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)

	// Validly signed but never persisted.
	stray, err := svc.Codec.CreateRefreshToken(reg.User.ID, "a@x.com", models.RoleViewer)
	require.NoError(t, err)
	require.NotEqual(t, reg.RefreshToken, stray)

	_, err = svc.Refresh(ctx, stray)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeUnauthorized, ae.Code)
}

func TestRefreshExpiredRecord(t *testing.T) {
	svc, repository := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)

	// A signed token whose persisted expiry has already passed. The row
	// expiry is authoritative even though the claim is still valid.
	token, err := svc.Codec.CreateRefreshToken(reg.User.ID, "a@x.com", models.RoleViewer)
	require.NoError(t, err)
	record := models.RefreshToken{
		Token:     token,
		UserID:    reg.User.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repository.CreateRefresh(ctx, &record))

	_, err = svc.Refresh(ctx, token)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeUnauthorized, ae.Code)

	// The expired row was removed as a side effect.
	gone, err := repository.FindRefreshByToken(ctx, token)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestLogoutIdempotent(t *testing.T) {
	svc, repository := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutWithToken(ctx, reg.RefreshToken))
	require.NoError(t, svc.LogoutWithToken(ctx, reg.RefreshToken))

	count, err := repository.CountRefreshByUser(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	// Logout-all on a user with no sessions is fine too.
	require.NoError(t, svc.Logout(ctx, reg.User.ID))
}

func TestLogoutAllSessions(t *testing.T) {
	svc, repository := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	count, err := repository.CountRefreshByUser(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	require.NoError(t, svc.Logout(ctx, reg.User.ID))

	count, err = repository.CountRefreshByUser(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestCleanupExpiredTokens(t *testing.T) {
	svc, repository := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)

	expired := models.RefreshToken{
		Token:     "expired-token",
		UserID:    reg.User.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repository.CreateRefresh(ctx, &expired))

	removed, err := svc.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	// The live session from registration survives.
	count, err := repository.CountRefreshByUser(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestFullLifecycle(t *testing.T) {
	svc, repository := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "password1", "Alice")
	require.NoError(t, err)
	require.Equal(t, models.RoleViewer, reg.User.Role)

	login, err := svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	require.NotEqual(t, reg.RefreshToken, login.RefreshToken)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	old, err := repository.FindRefreshByToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.Nil(t, old)

	require.NoError(t, svc.Logout(ctx, reg.User.ID))

	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeUnauthorized, ae.Code)
}
