package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/emilythestrangee/solarrank/backend/internal/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims carried by both access and refresh tokens. TokenType keeps
// the two from being replayed in each other's place.
type Claims struct {
	UserID    int    `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SessionConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// SessionManager mints and verifies the two token kinds and drives the
// refresh-token lifecycle through the TokenStore.
type SessionManager struct {
	db    *gorm.DB
	store *TokenStore
	cfg   SessionConfig
}

func NewSessionManager(db *gorm.DB, store *TokenStore, cfg SessionConfig) *SessionManager {
	return &SessionManager{db: db, store: store, cfg: cfg}
}

// Issue mints an access/refresh pair for the user and persists the
// refresh token. The insert joins the caller's transaction when one is
// passed, so registration and login stay all-or-nothing.
func (m *SessionManager) Issue(tx *gorm.DB, user *models.User) (*TokenPair, error) {
	access, err := m.mint(user, tokenTypeAccess, m.cfg.AccessSecret, m.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.mint(user, tokenTypeRefresh, m.cfg.RefreshSecret, m.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	if err := m.store.Insert(tx, user.ID, refresh, time.Now().Add(m.cfg.RefreshTTL)); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a new access token for a valid refresh token. The
// refresh token itself is not rotated; login is the only point that
// supersedes it.
func (m *SessionManager) Refresh(refreshToken string) (string, error) {
	claims, err := m.parse(refreshToken, tokenTypeRefresh, m.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}

	if _, err := m.store.FindActiveByToken(refreshToken); err != nil {
		return "", err
	}

	// The user may have been deleted since the token was issued.
	var user models.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return m.mint(&user, tokenTypeAccess, m.cfg.AccessSecret, m.cfg.AccessTTL)
}

// Logout revokes the given refresh token. An empty token is a no-op.
func (m *SessionManager) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return m.store.Revoke(refreshToken)
}

// Verify checks an access token's signature, expiry and type.
func (m *SessionManager) Verify(accessToken string) (*Claims, error) {
	return m.parse(accessToken, tokenTypeAccess, m.cfg.AccessSecret)
}

func (m *SessionManager) mint(user *models.User, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *SessionManager) parse(tokenString, wantType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
