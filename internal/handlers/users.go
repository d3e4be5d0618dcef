package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SanjanaSK25/Career-Connect/internal/logging"
	"github.com/SanjanaSK25/Career-Connect/internal/models"
	"github.com/SanjanaSK25/Career-Connect/internal/repositories"
)

const maxPictureUploadBytes = 10 << 20

// UserHandler serves account, profile, directory and resume endpoints.
type UserHandler struct {
	Users    UserStore
	Profiles ProfileStore
	Sessions SessionResolver
	Blobs    BlobStore
	Resumes  ResumeRenderer
	NowFunc  func() time.Time
}

// Me handles GET /api/v1/users/me and returns the caller's combined
// account and profile record.
func (h UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	user, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	view, err := h.Profiles.ViewByUserID(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "profile not found", "")
		return
	}
	respondData(ctx, w, http.StatusOK, view)
}

// UpdateAccount handles POST /api/v1/users/account. The payload is a strict
// whitelist patch: unknown fields are rejected rather than ignored.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	var patch models.UserPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		logger.Warn("invalid account patch", "error", err, "userId", user.ID)
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		respondMessage(ctx, w, http.StatusBadRequest, "no fields to update")
		return
	}

	if patch.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*patch.Email))
		if _, err := mail.ParseAddress(normalized); err != nil {
			logger.Warn("account patch invalid email", "error", err, "userId", user.ID)
			respondMessage(ctx, w, http.StatusBadRequest, "invalid email address")
			return
		}
		patch.Email = &normalized
	}

	if patch.TouchesIdentity() {
		if err := h.checkIdentityAvailable(ctx, user.ID, patch); err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				respondMessage(ctx, w, http.StatusBadRequest, "username or email already taken")
				return
			}
			respondServerFault(ctx, w, err)
			return
		}
	}

	patch.Apply(&user)
	user.UpdatedAt = h.now()
	if err := h.Users.Update(ctx, user); err != nil {
		respondStoreError(ctx, w, err, "user not found", "username or email already taken")
		return
	}
	respondData(ctx, w, http.StatusOK, user.Public())
}

// UpdateProfile handles POST /api/v1/users/profile with a strict whitelist
// patch over the extended profile fields.
func (h UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	var patch models.ProfilePatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		logger.Warn("invalid profile patch", "error", err, "userId", user.ID)
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		respondMessage(ctx, w, http.StatusBadRequest, "no fields to update")
		return
	}

	profile, err := h.Profiles.FindByUserID(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "profile not found", "")
		return
	}

	patch.Apply(&profile)
	profile.UpdatedAt = h.now()
	if err := h.Profiles.Update(ctx, profile); err != nil {
		respondStoreError(ctx, w, err, "profile not found", "")
		return
	}
	respondData(ctx, w, http.StatusOK, profile)
}

// UploadPicture handles POST /api/v1/users/picture with a multipart form
// carrying the image under the "picture" field. The stored location replaces
// the caller's previous picture reference.
func (h UserHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	if h.Blobs == nil {
		logger.Error("blob storage unavailable")
		respondMessage(ctx, w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	if err := r.ParseMultipartForm(maxPictureUploadBytes); err != nil {
		logger.Warn("invalid picture upload", "error", err, "userId", user.ID)
		respondMessage(ctx, w, http.StatusBadRequest, "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("picture")
	if err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "picture file is required")
		return
	}
	defer file.Close()

	key := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	location, err := h.Blobs.Save(ctx, key, file)
	if err != nil {
		logger.Error("failed to store picture", "error", err, "userId", user.ID)
		respondServerFault(ctx, w, err)
		return
	}

	user.ProfilePicture = location
	user.UpdatedAt = h.now()
	if err := h.Users.Update(ctx, user); err != nil {
		respondStoreError(ctx, w, err, "user not found", "")
		return
	}
	respondData(ctx, w, http.StatusOK, user.Public())
}

// ByUsername handles GET /api/v1/users?username= lookups of another member's
// combined account and profile record.
func (h UserHandler) ByUsername(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if _, err := authenticate(r, h.Sessions, h.Users); err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondStoreError(ctx, w, err, "user not found", "")
		return
	}
	view, err := h.Profiles.ViewByUserID(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "profile not found", "")
		return
	}
	respondData(ctx, w, http.StatusOK, view)
}

// List handles GET /api/v1/users/list, returning a paginated member
// directory.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if _, err := authenticate(r, h.Sessions, h.Users); err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	limit, offset := pagination(r)
	views, err := h.Profiles.List(ctx, limit, offset)
	if err != nil {
		respondServerFault(ctx, w, err)
		return
	}
	if views == nil {
		views = []models.ProfileView{}
	}
	respondData(ctx, w, http.StatusOK, views)
}

// Resume handles GET /api/v1/users/resume?id=. It renders the requested
// member's profile to a PDF document and returns the stored filename. An
// absent id renders the caller's own resume.
func (h UserHandler) Resume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	caller, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	if h.Resumes == nil {
		logger.Error("resume renderer unavailable")
		respondMessage(ctx, w, http.StatusInternalServerError, "resume rendering unavailable")
		return
	}

	subject := strings.TrimSpace(r.URL.Query().Get("id"))
	if subject == "" {
		subject = caller.ID
	}

	view, err := h.Profiles.ViewByUserID(ctx, subject)
	if err != nil {
		respondStoreError(ctx, w, err, "user not found", "")
		return
	}

	filename, err := h.Resumes.Render(ctx, view)
	if err != nil {
		logger.Error("failed to render resume", "error", err, "userId", subject)
		respondServerFault(ctx, w, err)
		return
	}
	respondData(ctx, w, http.StatusOK, resumeResponse{Filename: filename})
}

type resumeResponse struct {
	Filename string `json:"filename"`
}

// checkIdentityAvailable reports ErrConflict when the patched username or
// email already belongs to a different user.
func (h UserHandler) checkIdentityAvailable(ctx context.Context, selfID string, patch models.UserPatch) error {
	if patch.Username != nil {
		other, err := h.Users.FindByUsername(ctx, *patch.Username)
		switch {
		case err == nil && other.ID != selfID:
			return repositories.ErrConflict
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return err
		}
	}
	if patch.Email != nil {
		other, err := h.Users.FindByEmail(ctx, *patch.Email)
		switch {
		case err == nil && other.ID != selfID:
			return repositories.ErrConflict
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return err
		}
	}
	return nil
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
