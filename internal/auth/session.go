package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// sessionTTL bounds how long a signed-in session stays valid.
const sessionTTL = time.Hour

// IssueSessionToken returns a short-lived HS256 session token keyed by
// google_id.
func (s *Service) IssueSessionToken(googleID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   googleID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifySessionToken validates a session token and returns the google_id it
// was issued for.
func (s *Service) VerifySessionToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("session token missing subject")
	}
	return sub, nil
}
