package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints the short-lived tickets the conversation page embeds so
// the websocket endpoint can authenticate the connection without re-parsing
// the session cookie.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

type wsClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(userID uint, username string) (string, error) {
	now := time.Now()
	claims := &wsClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "chatspace",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Validate checks signature and expiry and returns the identity the token
// was minted for.
func (t *TokenIssuer) Validate(tokenString string) (uint, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &wsClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, "", err
	}
	claims, ok := token.Claims.(*wsClaims)
	if !ok || !token.Valid {
		return 0, "", jwt.ErrSignatureInvalid
	}
	return claims.UserID, claims.Username, nil
}
