// Package client provides a Go client for the CareerConnect API together
// with a small action-dispatching state container modeled on the web
// frontend's data flow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// APIError carries the status code and message of a failed request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to a CareerConnect backend. The zero value is not usable;
// construct one with New. Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New builds a client for the API served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token used on authenticated calls. An empty
// token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, username, email, password string) error {
	body := map[string]string{"name": name, "username": username, "email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", body, nil)
}

// Login exchanges credentials for a bearer token and installs it on the
// client. The previous token for this account, on any client, stops working.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

// Me fetches the caller's combined account and profile record.
func (c *Client) Me(ctx context.Context) (ProfileView, error) {
	var out ProfileView
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/me", nil, &out)
	return out, err
}

// UpdateAccount applies a partial update to the caller's account fields.
func (c *Client) UpdateAccount(ctx context.Context, patch AccountPatch) (User, error) {
	var out User
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/users/account", patch, &out)
	return out, err
}

// UpdateProfile applies a partial update to the caller's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (Profile, error) {
	var out Profile
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/users/profile", patch, &out)
	return out, err
}

// UploadPicture stores a new profile picture and returns the updated account.
func (c *Client) UploadPicture(ctx context.Context, filename string, contents io.Reader) (User, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("picture", filename)
	if err != nil {
		return User{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return User{}, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return User{}, fmt.Errorf("build upload: %w", err)
	}

	var out User
	err = c.doMultipart(ctx, "/api/v1/users/picture", &buf, writer.FormDataContentType(), &out)
	return out, err
}

// MemberByUsername fetches another member's combined record.
func (c *Client) MemberByUsername(ctx context.Context, username string) (ProfileView, error) {
	var out ProfileView
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/users?username="+url.QueryEscape(username), nil, &out)
	return out, err
}

// Members fetches a page of the member directory.
func (c *Client) Members(ctx context.Context, limit, offset int) ([]ProfileView, error) {
	var out []ProfileView
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/list"+pageQuery(limit, offset), nil, &out)
	return out, err
}

// Resume renders a member's profile to a PDF and returns the stored
// filename. An empty id renders the caller's own resume.
func (c *Client) Resume(ctx context.Context, userID string) (string, error) {
	path := "/api/v1/users/resume"
	if userID != "" {
		path += "?id=" + url.QueryEscape(userID)
	}
	var out struct {
		Filename string `json:"filename"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Filename, nil
}

// Connect sends a connection request to another member.
func (c *Client) Connect(ctx context.Context, targetID string) (ConnectionRequest, error) {
	var out ConnectionRequest
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/connections/request", map[string]string{"targetId": targetID}, &out)
	return out, err
}

// IncomingConnections lists requests addressed to the caller.
func (c *Client) IncomingConnections(ctx context.Context) ([]ConnectionView, error) {
	var out []ConnectionView
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/connections/incoming", nil, &out)
	return out, err
}

// OutgoingConnections lists requests the caller has sent.
func (c *Client) OutgoingConnections(ctx context.Context) ([]ConnectionView, error) {
	var out []ConnectionView
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/connections/outgoing", nil, &out)
	return out, err
}

// RespondConnection resolves a pending request. The "accept" action accepts
// it; anything else rejects it.
func (c *Client) RespondConnection(ctx context.Context, requestID, action string) error {
	body := map[string]string{"requestId": requestID, "action": action}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/connections/respond", body, nil)
}

// CreatePost publishes a post with an optional media attachment. Pass a nil
// media reader for a text-only post.
func (c *Client) CreatePost(ctx context.Context, body, mediaFilename string, media io.Reader) (Post, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("body", body); err != nil {
		return Post{}, fmt.Errorf("build post: %w", err)
	}
	if media != nil {
		part, err := writer.CreateFormFile("media", mediaFilename)
		if err != nil {
			return Post{}, fmt.Errorf("build post: %w", err)
		}
		if _, err := io.Copy(part, media); err != nil {
			return Post{}, fmt.Errorf("build post: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return Post{}, fmt.Errorf("build post: %w", err)
	}

	var out Post
	err := c.doMultipart(ctx, "/api/v1/posts", &buf, writer.FormDataContentType(), &out)
	return out, err
}

// Feed fetches a page of posts, newest first.
func (c *Client) Feed(ctx context.Context, limit, offset int) ([]PostView, error) {
	var out []PostView
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/posts"+pageQuery(limit, offset), nil, &out)
	return out, err
}

// DeletePost removes one of the caller's own posts.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/posts?id="+url.QueryEscape(postID), nil, nil)
}

// LikePost increments a post's like counter and returns the new total.
func (c *Client) LikePost(ctx context.Context, postID string) (int, error) {
	var out struct {
		Likes int `json:"likes"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/posts/like", map[string]string{"postId": postID}, &out)
	return out.Likes, err
}

// AddComment attaches a comment to a post.
func (c *Client) AddComment(ctx context.Context, postID, body string) (Comment, error) {
	var out Comment
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/posts/comments", map[string]string{"postId": postID, "body": body}, &out)
	return out, err
}

// Comments lists a post's comments, newest first.
func (c *Client) Comments(ctx context.Context, postID string) ([]CommentView, error) {
	var out []CommentView
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/posts/comments?post="+url.QueryEscape(postID), nil, &out)
	return out, err
}

// DeleteComment removes one of the caller's own comments.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/posts/comments?id="+url.QueryEscape(commentID), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Message string `json:"message"`
		}
		message := strings.TrimSpace(string(payload))
		if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Message != "" {
			message = envelope.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode response payload: %w", err)
	}
	return nil
}

func pageQuery(limit, offset int) string {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		values.Set("offset", strconv.Itoa(offset))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
