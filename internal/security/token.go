package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AccessClaims are the claims carried by an access token: subject (user id),
// email and role.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenSignerConfig holds signing configuration for both token kinds.
type TokenSignerConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenSigner issues and verifies the access/refresh JWT pair. Access and
// refresh tokens are signed with independent secrets so that one cannot be
// presented in place of the other.
type TokenSigner struct {
	config *TokenSignerConfig
}

// NewTokenSigner creates a new TokenSigner
func NewTokenSigner(config *TokenSignerConfig) *TokenSigner {
	if config.AccessTTL == 0 {
		config.AccessTTL = 15 * time.Minute
	}
	if config.RefreshTTL == 0 {
		config.RefreshTTL = 7 * 24 * time.Hour
	}
	return &TokenSigner{config: config}
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenSigner) AccessTTL() time.Duration {
	return s.config.AccessTTL
}

// SignAccess signs a short-lived access token carrying {sub, email, role}.
func (s *TokenSigner) SignAccess(userID, email, role string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessSecret))
}

// SignRefresh signs a long-lived refresh token carrying only {sub}. Role and
// email are deliberately excluded so role changes take effect on the next
// access-token refresh rather than surviving inside the refresh token.
func (s *TokenSigner) SignRefresh(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.RefreshTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.RefreshSecret))
}

// VerifyAccess verifies signature and expiry of an access token and returns
// its claims.
func (s *TokenSigner) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(tokenString, claims, s.config.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh verifies signature and expiry of a refresh token and returns
// the subject user id.
func (s *TokenSigner) VerifyRefresh(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := s.verify(tokenString, claims, s.config.RefreshSecret); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *TokenSigner) verify(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// DigestToken returns the SHA-256 hex digest of a raw refresh token. Only
// this digest is persisted; a stolen database row cannot be replayed as a
// refresh token.
func DigestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// DigestEqual compares a raw refresh token against a stored digest in
// constant time.
func DigestEqual(raw, digest string) bool {
	computed := DigestToken(raw)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
