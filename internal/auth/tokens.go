package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"github.com/placefinder/placefinder/internal/apperr"
)

// Claims is the token payload. The owner id is the only claim the issuer
// always sets; exp is present only when a TTL is configured.
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens. There is no
// revocation list: a token stays valid until its exp, if it has one.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService. A zero ttl issues tokens without exp.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token carrying id.
func (s *TokenService) Issue(id string) (string, error) {
	claims := Claims{ID: id}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(s.now().Add(s.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", oops.Code(apperr.CodeInternalFailure).With("operation", "sign token").Wrap(err)
	}
	return signed, nil
}

// Decode verifies the signature and returns the owner id. Expired tokens
// fail with TOKEN_EXPIRED; anything else that does not verify fails with
// INVALID_TOKEN.
func (s *TokenService) Decode(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", oops.Code(apperr.CodeTokenExpired).Errorf("Unauthorized: Token expired.")
		}
		return "", oops.Code(apperr.CodeInvalidToken).With("cause", err.Error()).Errorf("Forbidden: Invalid token.")
	}
	if !parsed.Valid || claims.ID == "" {
		return "", oops.Code(apperr.CodeInvalidToken).Errorf("Forbidden: Invalid token.")
	}
	return claims.ID, nil
}
