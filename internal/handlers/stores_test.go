package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/SanjanaSK25/Career-Connect/internal/auth"
	"github.com/SanjanaSK25/Career-Connect/internal/models"
	"github.com/SanjanaSK25/Career-Connect/internal/repositories"
)

// Shared in-memory doubles for the handler tests.

type inMemoryUserStore struct {
	users    map[string]models.User
	profiles map[string]models.Profile
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{
		users:    make(map[string]models.User),
		profiles: make(map[string]models.Profile),
	}
}

func (s *inMemoryUserStore) CreateWithProfile(_ context.Context, user models.User, profile models.Profile) error {
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *inMemoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *inMemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *inMemoryUserStore) FindProfile(_ context.Context, userID string) (models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, repositories.ErrNotFound
	}
	return profile, nil
}

type inMemoryProfileStore struct {
	users *inMemoryUserStore
}

func (s inMemoryProfileStore) FindByUserID(ctx context.Context, userID string) (models.Profile, error) {
	return s.users.FindProfile(ctx, userID)
}

func (s inMemoryProfileStore) ViewByUserID(ctx context.Context, userID string) (models.ProfileView, error) {
	profile, err := s.users.FindProfile(ctx, userID)
	if err != nil {
		return models.ProfileView{}, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.ProfileView{}, err
	}
	return models.ProfileView{Profile: profile, User: user.Public()}, nil
}

func (s inMemoryProfileStore) Update(_ context.Context, profile models.Profile) error {
	if _, ok := s.users.profiles[profile.UserID]; !ok {
		return repositories.ErrNotFound
	}
	s.users.profiles[profile.UserID] = profile
	return nil
}

func (s inMemoryProfileStore) List(ctx context.Context, limit, offset int) ([]models.ProfileView, error) {
	ids := make([]string, 0, len(s.users.profiles))
	for id := range s.users.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []models.ProfileView
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		view, err := s.ViewByUserID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

type inMemoryConnectionStore struct {
	requests map[string]models.ConnectionRequest
	users    *inMemoryUserStore
}

func newInMemoryConnectionStore(users *inMemoryUserStore) *inMemoryConnectionStore {
	return &inMemoryConnectionStore{
		requests: make(map[string]models.ConnectionRequest),
		users:    users,
	}
}

func (s *inMemoryConnectionStore) CreateRequest(_ context.Context, request models.ConnectionRequest) error {
	for _, existing := range s.requests {
		if existing.Requester == request.Requester && existing.Target == request.Target {
			return repositories.ErrConflict
		}
	}
	s.requests[request.ID] = request
	return nil
}

func (s *inMemoryConnectionStore) FindByID(_ context.Context, id string) (models.ConnectionRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return models.ConnectionRequest{}, repositories.ErrNotFound
	}
	return request, nil
}

func (s *inMemoryConnectionStore) ListIncoming(ctx context.Context, userID string) ([]models.ConnectionView, error) {
	return s.list(ctx, func(r models.ConnectionRequest) (bool, string) {
		return r.Target == userID, r.Requester
	})
}

func (s *inMemoryConnectionStore) ListOutgoing(ctx context.Context, userID string) ([]models.ConnectionView, error) {
	return s.list(ctx, func(r models.ConnectionRequest) (bool, string) {
		return r.Requester == userID, r.Target
	})
}

func (s *inMemoryConnectionStore) list(ctx context.Context, match func(models.ConnectionRequest) (bool, string)) ([]models.ConnectionView, error) {
	var out []models.ConnectionView
	for _, request := range s.requests {
		ok, counterpart := match(request)
		if !ok {
			continue
		}
		user, err := s.users.FindByID(ctx, counterpart)
		if err != nil {
			return nil, err
		}
		out = append(out, models.ConnectionView{Request: request, With: user.Public()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Request.CreatedAt.After(out[j].Request.CreatedAt)
	})
	return out, nil
}

func (s *inMemoryConnectionStore) SetOutcome(_ context.Context, requestID string, accepted bool) error {
	request, ok := s.requests[requestID]
	if !ok {
		return repositories.ErrNotFound
	}
	request.Accepted = &accepted
	s.requests[requestID] = request
	return nil
}

type inMemoryPostStore struct {
	posts    map[string]models.Post
	comments map[string]models.Comment
	users    *inMemoryUserStore
}

func newInMemoryPostStore(users *inMemoryUserStore) *inMemoryPostStore {
	return &inMemoryPostStore{
		posts:    make(map[string]models.Post),
		comments: make(map[string]models.Comment),
		users:    users,
	}
}

func (s *inMemoryPostStore) Create(_ context.Context, post models.Post) error {
	s.posts[post.ID] = post
	return nil
}

func (s *inMemoryPostStore) FindByID(_ context.Context, id string) (models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, repositories.ErrNotFound
	}
	return post, nil
}

func (s *inMemoryPostStore) Delete(_ context.Context, id string) error {
	if _, ok := s.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *inMemoryPostStore) List(ctx context.Context, limit, offset int) ([]models.PostView, error) {
	posts := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	var out []models.PostView
	for i, post := range posts {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		author, err := s.users.FindByID(ctx, post.Author)
		if err != nil {
			return nil, err
		}
		out = append(out, models.PostView{Post: post, Author: author.Public()})
	}
	return out, nil
}

func (s *inMemoryPostStore) IncrementLikes(_ context.Context, id string) (int, error) {
	post, ok := s.posts[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	post.Likes++
	s.posts[id] = post
	return post.Likes, nil
}

func (s *inMemoryPostStore) CreateComment(_ context.Context, comment models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *inMemoryPostStore) FindCommentByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *inMemoryPostStore) DeleteComment(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *inMemoryPostStore) ListComments(ctx context.Context, postID string) ([]models.CommentView, error) {
	comments := make([]models.Comment, 0)
	for _, comment := range s.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})

	var out []models.CommentView
	for _, comment := range comments {
		author, err := s.users.FindByID(ctx, comment.Author)
		if err != nil {
			return nil, err
		}
		out = append(out, models.CommentView{Comment: comment, Author: author.Public()})
	}
	return out, nil
}

type memoryBlobStore struct {
	saved map[string][]byte
	err   error
}

func (s *memoryBlobStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[name] = data
	return "https://cdn.example.com/" + name, nil
}

// stubSessionResolver maps fixed bearer tokens to user ids.
type stubSessionResolver struct {
	sessions map[string]string
}

func (s stubSessionResolver) Resolve(_ context.Context, token string) (string, error) {
	userID, ok := s.sessions[token]
	if !ok {
		return "", auth.ErrSessionNotFound
	}
	return userID, nil
}

type stubSessionIssuer struct {
	issued map[string]int
	err    error
}

func (s *stubSessionIssuer) Issue(_ context.Context, userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.issued == nil {
		s.issued = make(map[string]int)
	}
	s.issued[userID]++
	return fmt.Sprintf("token-%s-%d", userID, s.issued[userID]), nil
}

type errUserStore struct {
	*inMemoryUserStore
	err error
}

func newErrUserStore(err error) errUserStore {
	return errUserStore{inMemoryUserStore: newInMemoryUserStore(), err: err}
}

func (s errUserStore) FindByEmail(context.Context, string) (models.User, error) {
	return models.User{}, s.err
}

var errStoreDown = errors.New("store down")

func authorized(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
