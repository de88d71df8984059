package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shyamxrana/Attendance-System-College/internal/model"
)

// CookieName is the session cookie the issuer sets and the gate reads.
const CookieName = "token"

var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
)

// Claims is the session payload. UserID and Role are required; a decode
// that yields an empty user id or an unknown role is treated as malformed
// even when the signature checks out.
type Claims struct {
	UserID           string     `json:"userId"`
	Role             model.Role `json:"role"`
	StudentProfileID *string    `json:"studentProfileId,omitempty"`
	jwt.RegisteredClaims
}

func NewSessionToken(secret string, ttl time.Duration, claims Claims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.UserID == "" {
		return nil, ErrTokenMalformed
	}
	if _, ok := model.ParseRole(string(claims.Role)); !ok {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
