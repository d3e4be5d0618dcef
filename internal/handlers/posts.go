package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SanjanaSK25/Career-Connect/internal/logging"
	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

const maxPostUploadBytes = 50 << 20

// PostHandler serves the feed: posts with optional media, anonymous like
// counters and per-post comments.
type PostHandler struct {
	Users    UserStore
	Sessions SessionResolver
	Posts    PostStore
	Blobs    BlobStore
	NowFunc  func() time.Time
}

// Handle serves /api/v1/posts, dispatching on method: POST creates a post,
// GET lists the feed, DELETE removes one of the caller's own posts.
func (h PostHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.listFeed(w, r)
	case http.MethodDelete:
		h.deletePost(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h PostHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	caller, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxPostUploadBytes); err != nil {
		logger.Warn("invalid post upload", "error", err, "userId", caller.ID)
		respondMessage(ctx, w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	body := strings.TrimSpace(r.FormValue("body"))
	if body == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "post body is required")
		return
	}

	post := models.Post{
		ID:        uuid.NewString(),
		Author:    caller.ID,
		Body:      body,
		CreatedAt: h.now(),
	}

	if file, header, err := r.FormFile("media"); err == nil {
		defer file.Close()
		if h.Blobs == nil {
			logger.Error("blob storage unavailable")
			respondMessage(ctx, w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		key := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
		location, err := h.Blobs.Save(ctx, key, file)
		if err != nil {
			logger.Error("failed to store post media", "error", err, "userId", caller.ID)
			respondServerFault(ctx, w, err)
			return
		}
		post.Media = location
		post.MediaType = mediaKind(header.Header.Get("Content-Type"))
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		respondStoreError(ctx, w, err, "user not found", "post already exists")
		return
	}

	logger.Info("post created", "postId", post.ID, "authorId", caller.ID, "hasMedia", post.Media != "")
	respondData(ctx, w, http.StatusCreated, post)
}

func (h PostHandler) listFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := authenticate(r, h.Sessions, h.Users); err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	limit, offset := pagination(r)
	views, err := h.Posts.List(ctx, limit, offset)
	if err != nil {
		respondServerFault(ctx, w, err)
		return
	}
	if views == nil {
		views = []models.PostView{}
	}
	respondData(ctx, w, http.StatusOK, views)
}

func (h PostHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	caller, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "id is required")
		return
	}

	post, err := h.Posts.FindByID(ctx, id)
	if err != nil {
		respondStoreError(ctx, w, err, "post not found", "")
		return
	}
	if post.Author != caller.ID {
		logger.Warn("post delete by non-author", "postId", post.ID, "userId", caller.ID)
		respondMessage(ctx, w, http.StatusUnauthorized, "not authorized to delete this post")
		return
	}

	if err := h.Posts.Delete(ctx, post.ID); err != nil {
		respondStoreError(ctx, w, err, "post not found", "")
		return
	}
	respondMessage(ctx, w, http.StatusOK, "post deleted")
}

// Like handles POST /api/v1/posts/like. The counter is anonymous and
// unbounded: every call increments it, with no record of who liked and no
// session required.
func (h PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req likePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid like payload", "error", err)
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.PostID = strings.TrimSpace(req.PostID)
	if req.PostID == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "postId is required")
		return
	}

	likes, err := h.Posts.IncrementLikes(ctx, req.PostID)
	if err != nil {
		respondStoreError(ctx, w, err, "post not found", "")
		return
	}
	respondData(ctx, w, http.StatusOK, likeResponse{Likes: likes})
}

// Comments serves /api/v1/posts/comments, dispatching on method: POST adds a
// comment, GET lists a post's comments newest first, DELETE removes one of
// the caller's own comments.
func (h PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addComment(w, r)
	case http.MethodGet:
		h.listComments(w, r)
	case http.MethodDelete:
		h.deleteComment(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h PostHandler) addComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	caller, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	var req commentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid comment payload", "error", err, "userId", caller.ID)
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.PostID = strings.TrimSpace(req.PostID)
	req.Body = strings.TrimSpace(req.Body)
	if req.PostID == "" || req.Body == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "postId and body are required")
		return
	}

	if _, err := h.Posts.FindByID(ctx, req.PostID); err != nil {
		respondStoreError(ctx, w, err, "post not found", "")
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		PostID:    req.PostID,
		Author:    caller.ID,
		Body:      req.Body,
		CreatedAt: h.now(),
	}
	if err := h.Posts.CreateComment(ctx, comment); err != nil {
		respondStoreError(ctx, w, err, "post not found", "comment already exists")
		return
	}
	respondData(ctx, w, http.StatusCreated, comment)
}

func (h PostHandler) listComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := authenticate(r, h.Sessions, h.Users); err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	postID := strings.TrimSpace(r.URL.Query().Get("post"))
	if postID == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "post is required")
		return
	}

	if _, err := h.Posts.FindByID(ctx, postID); err != nil {
		respondStoreError(ctx, w, err, "post not found", "")
		return
	}

	views, err := h.Posts.ListComments(ctx, postID)
	if err != nil {
		respondServerFault(ctx, w, err)
		return
	}
	if views == nil {
		views = []models.CommentView{}
	}
	respondData(ctx, w, http.StatusOK, views)
}

func (h PostHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	caller, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "id is required")
		return
	}

	comment, err := h.Posts.FindCommentByID(ctx, id)
	if err != nil {
		respondStoreError(ctx, w, err, "comment not found", "")
		return
	}
	if comment.Author != caller.ID {
		logger.Warn("comment delete by non-author", "commentId", comment.ID, "userId", caller.ID)
		respondMessage(ctx, w, http.StatusUnauthorized, "not authorized to delete this comment")
		return
	}

	if err := h.Posts.DeleteComment(ctx, comment.ID); err != nil {
		respondStoreError(ctx, w, err, "comment not found", "")
		return
	}
	respondMessage(ctx, w, http.StatusOK, "comment deleted")
}

type likePayload struct {
	PostID string `json:"postId"`
}

type likeResponse struct {
	Likes int `json:"likes"`
}

type commentPayload struct {
	PostID string `json:"postId"`
	Body   string `json:"body"`
}

// mediaKind reduces a MIME type to its subtype, e.g. "image/png"
// becomes "png".
func mediaKind(contentType string) string {
	_, kind, found := strings.Cut(contentType, "/")
	if !found {
		return contentType
	}
	return kind
}

func (h PostHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
