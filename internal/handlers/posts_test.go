package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

func newPostHandler(users *inMemoryUserStore, posts *inMemoryPostStore, sessions map[string]string) PostHandler {
	return PostHandler{
		Users:    users,
		Sessions: stubSessionResolver{sessions: sessions},
		Posts:    posts,
	}
}

func postForm(t *testing.T, body string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("body", body); err != nil {
		t.Fatalf("write body field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestPostHandlerCreate(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	posts := newInMemoryPostStore(users)
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1"})
	handler.NowFunc = func() time.Time { return now }

	buf, contentType := postForm(t, "hello network")
	req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/posts", buf), "tok-1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Post `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Author != "u1" || resp.Data.Body != "hello network" {
		t.Fatalf("unexpected post record: %+v", resp.Data)
	}
	if resp.Data.Likes != 0 {
		t.Fatalf("expected a fresh post to start with zero likes")
	}
	if resp.Data.CreatedAt != now {
		t.Fatalf("expected createdAt to use NowFunc")
	}
	if _, ok := posts.posts[resp.Data.ID]; !ok {
		t.Fatalf("expected post to be stored")
	}
}

func TestPostHandlerCreateWithMedia(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	posts := newInMemoryPostStore(users)
	blobs := &memoryBlobStore{}
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1"})
	handler.Blobs = blobs

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("body", "look at this"); err != nil {
		t.Fatalf("write body field: %v", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="media"; filename="pic.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create media part: %v", err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatalf("write media part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/posts", &buf), "tok-1")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Post `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Media == "" {
		t.Fatalf("expected media location to be set")
	}
	if resp.Data.MediaType != "jpeg" {
		t.Fatalf("expected media type %q got %q", "jpeg", resp.Data.MediaType)
	}
	if len(blobs.saved) != 1 {
		t.Fatalf("expected one stored blob, got %d", len(blobs.saved))
	}
}

func TestPostHandlerCreateFailures(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	posts := newInMemoryPostStore(users)
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1"})

	emptyBody, contentType := postForm(t, "")
	req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/posts", emptyBody), "tok-1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected missing body to return %d got %d", http.StatusBadRequest, rec.Code)
	}

	buf, contentType := postForm(t, "hello")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/posts", buf)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	handler.Handle(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected unauthenticated create to return %d got %d", http.StatusNotFound, rec.Code)
	}

	req = authorized(httptest.NewRequest(http.MethodPut, "/api/v1/posts", nil), "tok-1")
	rec = httptest.NewRecorder()
	handler.Handle(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected unsupported method to return %d got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestPostHandlerList(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	posts := newInMemoryPostStore(users)
	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		posts.posts[id] = models.Post{ID: id, Author: "u1", Body: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
	}
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1"})

	req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/posts?limit=2", nil), "tok-1")
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Data []models.PostView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected a page of 2 posts, got %d", len(resp.Data))
	}
	if resp.Data[0].Post.ID != "p3" || resp.Data[1].Post.ID != "p2" {
		t.Fatalf("expected newest-first ordering, got %+v", resp.Data)
	}
	if resp.Data[0].Author.Username != "ada" {
		t.Fatalf("expected author public fields, got %+v", resp.Data[0].Author)
	}
}

func TestPostHandlerDelete(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	seedUser(users, "u2", "grace", "grace@example.com")
	posts := newInMemoryPostStore(users)
	posts.posts["p1"] = models.Post{ID: "p1", Author: "u1", Body: "mine"}
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1", "tok-2": "u2"})

	// Another member cannot delete the post.
	req := authorized(httptest.NewRequest(http.MethodDelete, "/api/v1/posts?id=p1", nil), "tok-2")
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected non-author delete to return %d got %d", http.StatusUnauthorized, rec.Code)
	}
	if _, ok := posts.posts["p1"]; !ok {
		t.Fatalf("expected post to survive a rejected delete")
	}

	req = authorized(httptest.NewRequest(http.MethodDelete, "/api/v1/posts?id=p1", nil), "tok-1")
	rec = httptest.NewRecorder()
	handler.Handle(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected author delete to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := posts.posts["p1"]; ok {
		t.Fatalf("expected post to be removed")
	}

	req = authorized(httptest.NewRequest(http.MethodDelete, "/api/v1/posts?id=p1", nil), "tok-1")
	rec = httptest.NewRecorder()
	handler.Handle(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected repeat delete to return %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPostHandlerLike(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	posts := newInMemoryPostStore(users)
	posts.posts["p1"] = models.Post{ID: "p1", Author: "u1", Body: "likeable"}
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1"})

	// The counter is anonymous: no Authorization header is sent.
	var last likeResponse
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/like", strings.NewReader(`{"postId":"p1"}`))
		rec := httptest.NewRecorder()
		handler.Like(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		var resp struct {
			Data likeResponse `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		last = resp.Data
	}

	// Every call counts, including repeats from the same caller.
	if last.Likes != 3 {
		t.Fatalf("expected 3 likes after 3 calls, got %d", last.Likes)
	}
	if posts.posts["p1"].Likes != 3 {
		t.Fatalf("expected stored counter to match, got %d", posts.posts["p1"].Likes)
	}
}

func TestPostHandlerLikeFailures(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	posts := newInMemoryPostStore(users)
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1"})

	cases := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"wrongMethod", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"badJSON", http.MethodPost, "{", http.StatusBadRequest},
		{"missingPostID", http.MethodPost, `{"postId":""}`, http.StatusBadRequest},
		{"unknownPost", http.MethodPost, `{"postId":"ghost"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/posts/like", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.Like(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestPostHandlerComments(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	seedUser(users, "u2", "grace", "grace@example.com")
	posts := newInMemoryPostStore(users)
	posts.posts["p1"] = models.Post{ID: "p1", Author: "u1", Body: "discuss"}
	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1", "tok-2": "u2"})

	calls := 0
	handler.NowFunc = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	for _, body := range []string{"first", "second"} {
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/posts/comments", strings.NewReader(`{"postId":"p1","body":"`+body+`"}`)), "tok-2")
		rec := httptest.NewRecorder()
		handler.Comments(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
		}
	}

	req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/posts/comments?post=p1", nil), "tok-1")
	rec := httptest.NewRecorder()
	handler.Comments(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Data []models.CommentView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(resp.Data))
	}
	if resp.Data[0].Comment.Body != "second" || resp.Data[1].Comment.Body != "first" {
		t.Fatalf("expected newest-first ordering, got %+v", resp.Data)
	}
	if resp.Data[0].Author.Username != "grace" {
		t.Fatalf("expected commenter public fields, got %+v", resp.Data[0].Author)
	}
}

func TestPostHandlerCommentFailures(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	posts := newInMemoryPostStore(users)
	posts.posts["p1"] = models.Post{ID: "p1", Author: "u1", Body: "discuss"}
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1"})

	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"badJSON", "{", http.StatusBadRequest},
		{"missingFields", `{"postId":"p1","body":""}`, http.StatusBadRequest},
		{"unknownPost", `{"postId":"ghost","body":"hi"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/posts/comments", strings.NewReader(tc.body)), "tok-1")
			rec := httptest.NewRecorder()
			handler.Comments(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}

	req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/posts/comments?post=ghost", nil), "tok-1")
	rec := httptest.NewRecorder()
	handler.Comments(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected unknown post listing to return %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPostHandlerDeleteComment(t *testing.T) {
	users := newInMemoryUserStore()
	seedUser(users, "u1", "ada", "ada@example.com")
	seedUser(users, "u2", "grace", "grace@example.com")
	posts := newInMemoryPostStore(users)
	posts.posts["p1"] = models.Post{ID: "p1", Author: "u1", Body: "discuss"}
	posts.comments["c1"] = models.Comment{ID: "c1", PostID: "p1", Author: "u2", Body: "mine"}
	handler := newPostHandler(users, posts, map[string]string{"tok-1": "u1", "tok-2": "u2"})

	// Even the post's author cannot delete someone else's comment.
	req := authorized(httptest.NewRequest(http.MethodDelete, "/api/v1/posts/comments?id=c1", nil), "tok-1")
	rec := httptest.NewRecorder()
	handler.Comments(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected non-author comment delete to return %d got %d", http.StatusUnauthorized, rec.Code)
	}

	req = authorized(httptest.NewRequest(http.MethodDelete, "/api/v1/posts/comments?id=c1", nil), "tok-2")
	rec = httptest.NewRecorder()
	handler.Comments(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected author comment delete to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := posts.comments["c1"]; ok {
		t.Fatalf("expected comment to be removed")
	}
	if _, ok := posts.posts["p1"]; !ok {
		t.Fatalf("expected the post to survive its comment's deletion")
	}
}
