package service

import (
	"context"
	"time"

	"family_album/internal/apperr"
	"family_album/internal/hash"
	"family_album/internal/logging"
	"family_album/internal/models"
	"family_album/internal/repo"
	"family_album/internal/tokens"
)

// UserSummary is the projection of a user returned to clients. The
// password hash never leaves the service layer.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func SummarizeUser(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type TokenResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}

type AuthService struct {
	Repo  *repo.GormRepo
	Codec *tokens.Codec
}

// login failures share one message so the response never reveals
// whether the email exists.
const badCredentials = "invalid email or password"

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*TokenResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	exists, err := s.Repo.UserExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		l.Warn("register rejected", "reason", "duplicate email")
		return nil, apperr.Duplicate("User", "email", email)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Name:         name,
		Role:         models.RoleViewer,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	l.Info("user registered", "user_id", user.ID)
	return s.issueTokens(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		l.Warn("login failed", "reason", "unknown email")
		return nil, apperr.Unauthorized(badCredentials)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "bad password", "user_id", user.ID)
		return nil, apperr.Unauthorized(badCredentials)
	}

	l.Info("user logged in", "user_id", user.ID)
	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is deleted and a
// brand-new pair is issued. A token can therefore be refreshed exactly
// once; a replay after rotation fails the lookup.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	// Cheap signature/expiry check before touching storage.
	if !s.Codec.Verify(refreshToken) {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	record, err := s.Repo.FindRefreshByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	// The persisted expiry is authoritative over the token's own exp
	// claim. An expired row is removed on the spot.
	if record.Expired(time.Now()) {
		if err := s.Repo.DeleteRefresh(ctx, record); err != nil {
			return nil, err
		}
		return nil, apperr.Unauthorized("expired refresh token")
	}

	user, err := s.Repo.FindUserByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	accessToken, err := s.Codec.CreateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.Codec.CreateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	replacement := models.RefreshToken{
		Token:     newRefresh,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.Codec.RefreshTTL()),
	}
	rotated, err := s.Repo.RotateRefresh(ctx, refreshToken, &replacement)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// A concurrent refresh with the same token won the race.
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	l.Info("token refreshed", "user_id", user.ID)
	return &TokenResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		User:         SummarizeUser(user),
	}, nil
}

// Logout revokes every session of the user. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Repo.DeleteRefreshByUser(ctx, userID)
}

// LogoutWithToken revokes the single matching session, if any. Idempotent.
func (s *AuthService) LogoutWithToken(ctx context.Context, refreshToken string) error {
	return s.Repo.DeleteRefreshByToken(ctx, refreshToken)
}

func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	removed, err := s.Repo.DeleteExpiredRefresh(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logging.FromContext(ctx).Info("expired refresh tokens removed", "count", removed)
	}
	return removed, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenResult, error) {
	accessToken, err := s.Codec.CreateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Codec.CreateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	record := models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.Codec.RefreshTTL()),
	}
	if err := s.Repo.CreateRefresh(ctx, &record); err != nil {
		return nil, err
	}

	return &TokenResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         SummarizeUser(user),
	}, nil
}
