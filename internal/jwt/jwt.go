// internal/jwt/jwt.go

package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType различает access- и refresh-токены в claims.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// ErrInvalidToken возвращается Parse на любую ошибку подписи/структуры/срока.
var ErrInvalidToken = errors.New("jwt: invalid token")

// Claims переносит subject (user id), username и тип токена.
// Refresh-токены не содержат exp: их срок жизни контролирует redis-хранилище.
type Claims struct {
	Username string    `json:"username,omitempty"`
	Type     TokenType `json:"type"`
	jwt.RegisteredClaims
}

// UserID возвращает subject claim.
func (c *Claims) UserID() string { return c.Subject }

// Signer выпускает подписанные токены.
type Signer interface {
	Access(userID, username string) (string, error)
	Refresh(userID string) (string, error)
}

// Verifier проверяет подпись и срок действия токена.
// Тип токена Parse не проверяет: вызывающий сверяет Claims.Type сам.
type Verifier interface {
	Parse(raw string) (*Claims, error)
}

// Config описывает параметры подписи.
type Config struct {
	Secret    string        // общий секрет HMAC
	Algorithm string        // hs256 | hs384 | hs512
	AccessTTL time.Duration // 0 → access-токены без exp (не истекают)
}

// Manager реализует Signer и Verifier поверх golang-jwt.
type Manager struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
}

// New создаёт Manager. AccessTTL == 0 разрешён осознанно:
// такие access-токены не получают exp claim и не истекают.
func New(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret is required")
	}
	if cfg.AccessTTL < 0 {
		return nil, errors.New("jwt: negative access ttl")
	}

	var method jwt.SigningMethod
	switch strings.ToLower(cfg.Algorithm) {
	case "", "hs256":
		method = jwt.SigningMethodHS256
	case "hs384":
		method = jwt.SigningMethodHS384
	case "hs512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("jwt: unsupported algorithm %q", cfg.Algorithm)
	}

	return &Manager{
		secret:    []byte(cfg.Secret),
		method:    method,
		accessTTL: cfg.AccessTTL,
	}, nil
}

// Access выпускает access-токен с sub, username и exp (если TTL задан).
func (m *Manager) Access(userID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Type:     AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.accessTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.accessTTL))
	}
	return m.sign(claims)
}

// Refresh выпускает refresh-токен с sub и iat, без exp.
func (m *Manager) Refresh(userID string) (string, error) {
	claims := Claims{
		Type: RefreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return m.sign(claims)
}

func (m *Manager) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(m.method, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись и exp (если есть). Любая ошибка сворачивается
// в ErrInvalidToken, чтобы детали подписи не утекали наружу.
func (m *Manager) Parse(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method.Alg()}),
	)
	token, err := parser.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
