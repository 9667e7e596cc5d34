package tokens

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Claims is the single claim shape shared by access and refresh tokens.
// The two differ only in lifetime; the refresh token is additionally
// persisted server-side, which is what makes it revocable.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens with an injected secret. It is
// stateless and safe for concurrent use.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec) CreateAccessToken(userID, email, role string) (string, error) {
	return c.create(userID, email, role, c.accessTTL)
}

func (c *Codec) CreateRefreshToken(userID, email, role string) (string, error) {
	return c.create(userID, email, role, c.refreshTTL)
}

func (c *Codec) create(userID, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps two tokens for the same user distinct even
			// when issued within the same second. Refresh tokens sit
			// behind a unique index, so they must never collide.
			ID:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify reports whether the token has a valid signature and an expiry
// in the future. It never returns an error: a malformed or expired
// token is an expected condition for this call.
func (c *Codec) Verify(tokenStr string) bool {
	_, err := c.parse(tokenStr)
	return err == nil
}

func (c *Codec) Subject(tokenStr string) (string, error) {
	claims, err := c.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (c *Codec) Email(tokenStr string) (string, error) {
	claims, err := c.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

func (c *Codec) Role(tokenStr string) (string, error) {
	claims, err := c.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

func (c *Codec) parse(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}
