package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"arztpraxis/internal/domain"
)

const adminRole = "admin"

type jwtClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWTService signs and verifies admin tokens with HS256.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

var (
	_ domain.TokenIssuer   = (*JWTService)(nil)
	_ domain.TokenVerifier = (*JWTService)(nil)
)

// NewJWTService returns a JWTService using secret as the HMAC key.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret), now: time.Now}
}

// Issue returns a signed token for subject that expires after expiry.
func (s *JWTService) Issue(subject string, expiry time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("no signing secret configured")
	}
	now := s.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Role: adminRole,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature, expiry and role and returns the token subject.
// An empty secret rejects every token.
func (s *JWTService) Verify(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, errors.New("no signing secret configured"))
	}
	claims := &jwtClaims{}
	keyFunc := func(*jwt.Token) (any, error) { return s.secret, nil }
	_, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Role != adminRole || claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, errors.New("token is not an admin token"))
	}
	return claims.Subject, nil
}
