package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/presyohub/presyo/internal/config"
	"github.com/presyohub/presyo/internal/store"
)

// DefaultTokeninfoURL is Google's token introspection endpoint.
const DefaultTokeninfoURL = "https://oauth2.googleapis.com/tokeninfo"

// verifyTimeout bounds the tokeninfo call.
const verifyTimeout = 5 * time.Second

// Claims are the tokeninfo response fields the gateway consumes. The endpoint
// returns email_verified as the string "true"/"false", not a boolean.
type Claims struct {
	Audience      string `json:"aud"`
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified string `json:"email_verified"`
}

// Error is a gateway failure carrying the HTTP status class it maps to.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func clientError(detail string) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: detail}
}

func serverError(detail string) *Error {
	return &Error{Status: http.StatusInternalServerError, Detail: detail}
}

// UserStore is the persistence surface the gateway needs.
type UserStore interface {
	UserByGoogleID(ctx context.Context, googleID string) (*store.User, error)
	InsertUser(ctx context.Context, user store.User) error
}

// Result is a successful authentication: the mapped user plus a signed
// session token.
type Result struct {
	User  store.User
	Token string
}

// Service verifies Google identity tokens and upserts the signed-in user.
type Service struct {
	// TokeninfoURL is overridable for tests.
	TokeninfoURL string

	cfg   *config.Gateway
	users UserStore
	http  *resty.Client
}

// NewService creates an authentication service over the given user store.
func NewService(cfg *config.Gateway, users UserStore) *Service {
	return &Service{
		TokeninfoURL: DefaultTokeninfoURL,
		cfg:          cfg,
		users:        users,
		http:         resty.New().SetTimeout(verifyTimeout),
	}
}

// Authenticate validates the raw Google ID token, upserts the user by
// google_id, and returns the mapped record with a session token. Failures are
// returned as *Error with the proper status class.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*Result, error) {
	claims, err := s.verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if s.cfg.RequireVerifiedEmail && claims.EmailVerified != "true" {
		slog.Warn("rejecting unverified email", "email", claims.Email)
		return nil, clientError("Google account email not verified.")
	}

	user := store.User{
		GoogleID:      claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		PictureURL:    claims.Picture,
		EmailVerified: claims.EmailVerified == "true",
	}

	// Insert-if-absent: an existing record is left untouched, fields are not
	// refreshed on repeat sign-in.
	existing, err := s.users.UserByGoogleID(ctx, user.GoogleID)
	if err != nil {
		slog.Error("user lookup failed", "google_id", user.GoogleID, "email", user.Email, "err", err)
		return nil, serverError("Internal server error.")
	}

	if existing == nil {
		if err := s.users.InsertUser(ctx, user); err != nil {
			slog.Error("user insert failed", "google_id", user.GoogleID, "email", user.Email, "err", err)
			return nil, serverError("Internal server error.")
		}
		slog.Info("user inserted", "email", user.Email)
	} else {
		slog.Info("user already exists", "email", user.Email)
	}

	token, err := s.IssueSessionToken(user.GoogleID, user.Email)
	if err != nil {
		slog.Error("session token issuance failed", "google_id", user.GoogleID, "err", err)
		return nil, serverError("Internal server error.")
	}

	return &Result{User: user, Token: token}, nil
}

// verify calls the tokeninfo endpoint and checks the audience claim against
// the configured client id.
func (s *Service) verify(ctx context.Context, rawToken string) (*Claims, error) {
	var claims Claims

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("id_token", rawToken).
		SetResult(&claims).
		Get(s.TokeninfoURL)
	if err != nil {
		slog.Error("token verification failed", "err", err)
		return nil, clientError("Google token verification failed.")
	}
	if resp.IsError() {
		slog.Error("token verification rejected", "status", resp.StatusCode(), "body", resp.String())
		return nil, clientError("Google token verification failed.")
	}

	if claims.Audience == "" || claims.Audience != s.cfg.GoogleClientID {
		slog.Warn("token audience mismatch", "aud", claims.Audience, "email", claims.Email)
		return nil, clientError("Token audience mismatch.")
	}

	return &claims, nil
}
