package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/assetgrid/assetgrid/internal/shared"
)

var (
	// ErrTokenInvalid indicates a malformed or tampered token.
	ErrTokenInvalid = errors.New("auth: invalid token")
	// ErrTokenExpired indicates a token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
)

// Claims carries the identity encoded in a session token. Exactly one of
// AdminID or UserID is set.
type Claims struct {
	AdminID  int64  `json:"adminId,omitempty"`
	UserID   int64  `json:"userId,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	UserType string `json:"userType,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the request identity shape.
func (c *Claims) Identity() *shared.Identity {
	if c == nil {
		return nil
	}
	return &shared.Identity{
		AdminID:  c.AdminID,
		UserID:   c.UserID,
		Username: c.Username,
		Role:     c.Role,
		UserType: c.UserType,
	}
}

// TokenManager signs and verifies session tokens using HMAC-SHA256.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithNow overrides the manager clock for testing.
func (m *TokenManager) WithNow(fn func() time.Time) {
	if fn != nil {
		m.now = fn
	}
}

// TTL returns the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given claims, stamping issue and expiry times.
func (m *TokenManager) Issue(claims Claims) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("auth: signing secret not configured")
	}
	now := m.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a signed token, returning its claims.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
