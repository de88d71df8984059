package auth

import (
	"net/http"
	"time"

	"github.com/shyamxrana/Attendance-System-College/internal/model"
)

// Issuer mints session tokens for users whose credentials the caller has
// already verified, and shapes the cookie that carries them.
type Issuer struct {
	secret     string
	ttl        time.Duration
	production bool
}

func NewIssuer(secret string, ttl time.Duration, production bool) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, production: production}
}

func (i *Issuer) Issue(user model.User) (string, *http.Cookie, error) {
	token, err := NewSessionToken(i.secret, i.ttl, Claims{
		UserID:           user.ID,
		Role:             user.Role,
		StudentProfileID: user.StudentProfileID,
	})
	if err != nil {
		return "", nil, err
	}
	return token, i.sessionCookie(token, int(i.ttl.Seconds())), nil
}

// ClearCookie returns a cookie that expires the session on the client.
func (i *Issuer) ClearCookie() *http.Cookie {
	return i.sessionCookie("", -1)
}

func (i *Issuer) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}
