package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var (
	ErrSecretMissing = errors.New("jwt secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

type Claims struct {
	Role string `json:"role"`

	jwt.RegisteredClaims
}

// Signer issues and checks HS256 tokens for the write routes.
type Signer struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
}

func NewSigner(secret string, ttl time.Duration, issuer string) Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return Signer{Secret: []byte(strings.TrimSpace(secret)), TokenTTL: ttl, Issuer: issuer}
}

// Enabled reports whether a secret is set. Without one the admin guard is open.
func (s Signer) Enabled() bool {
	return len(s.Secret) > 0
}

func (s Signer) Sign(subject, role string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrSecretMissing
	}
	now := time.Now().UTC()
	expiresAt := now.Add(s.TokenTTL)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s Signer) Verify(token string) (Claims, error) {
	if !s.Enabled() {
		return Claims{}, ErrSecretMissing
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, err
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *c, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
