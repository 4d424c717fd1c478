package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = time.Hour

var errMissingSubject = errors.New("token has no subject")

// Claims carries identity only. Roles are reloaded from storage on every
// request so revocations apply immediately.
type Claims struct {
	SubjectID      string  `json:"sub"`
	OrganizationID *string `json:"org,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	ttl := defaultTokenTTL
	if ttlMinutes > 0 {
		ttl = time.Duration(ttlMinutes) * time.Minute
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// GenerateToken returns the signed token and its expiry.
func (tm *TokenManager) GenerateToken(userID string, organizationID *string) (string, time.Time, error) {
	issued := time.Now()
	expiry := issued.Add(tm.ttl)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID:      userID,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseToken verifies signature and expiry. Tokens signed with any other
// algorithm are rejected.
func (tm *TokenManager) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := tm.parser.ParseWithClaims(raw, claims, tm.key); err != nil {
		return nil, err
	}
	if claims.SubjectID == "" {
		return nil, errMissingSubject
	}
	return claims, nil
}

func (tm *TokenManager) key(*jwt.Token) (any, error) {
	return tm.secret, nil
}
