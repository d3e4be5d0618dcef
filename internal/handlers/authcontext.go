package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SanjanaSK25/Career-Connect/internal/auth"
	"github.com/SanjanaSK25/Career-Connect/internal/models"
	"github.com/SanjanaSK25/Career-Connect/internal/repositories"
)

// authenticate resolves the request's bearer token into the calling user.
// The identity is resolved once per request and threaded into handler logic
// explicitly rather than smuggled through request bodies.
func authenticate(r *http.Request, sessions SessionResolver, users UserStore) (models.User, error) {
	token := bearerToken(r)
	if token == "" {
		return models.User{}, auth.ErrSessionNotFound
	}

	userID, err := sessions.Resolve(r.Context(), token)
	if err != nil {
		return models.User{}, err
	}

	return users.FindByID(r.Context(), userID)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// respondAuthError maps authentication failures: a missing or stale session
// behaves exactly like a missing user record.
func respondAuthError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, repositories.ErrNotFound) {
		respondMessage(ctx, w, http.StatusNotFound, "user not found")
		return
	}
	respondServerFault(ctx, w, err)
}
