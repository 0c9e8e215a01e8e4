package sim

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints and verifies the simulator's HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer returns an issuer signing with the given secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the token lifetime in seconds, as reported in token responses.
func (t *TokenIssuer) TTL() int64 { return int64(t.ttl.Seconds()) }

// Issue signs a bearer token for the given user id.
func (t *TokenIssuer) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

var errInvalidToken = errors.New("invalid token")

// Verify checks signature and expiry and returns the subject user id.
func (t *TokenIssuer) Verify(token string) (int64, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, errInvalidToken
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return 0, errInvalidToken
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errInvalidToken
	}
	return id, nil
}

// hashPassword wraps bcrypt with the default cost.
func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// checkPassword reports whether password matches the stored hash.
func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
