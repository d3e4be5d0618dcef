package handlers

import (
	"context"
	"io"

	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

// UserStore captures the user persistence operations required by handlers.
type UserStore interface {
	CreateWithProfile(ctx context.Context, user models.User, profile models.Profile) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

// ProfileStore captures operations on the extended profile records.
type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (models.Profile, error)
	ViewByUserID(ctx context.Context, userID string) (models.ProfileView, error)
	Update(ctx context.Context, profile models.Profile) error
	List(ctx context.Context, limit, offset int) ([]models.ProfileView, error)
}

// SessionIssuer creates a fresh bearer token for a user, displacing any
// previous one.
type SessionIssuer interface {
	Issue(ctx context.Context, userID string) (string, error)
}

// SessionResolver maps a bearer token back to a user id.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// ConnectionStore captures operations required by the connection handlers.
type ConnectionStore interface {
	CreateRequest(ctx context.Context, request models.ConnectionRequest) error
	FindByID(ctx context.Context, id string) (models.ConnectionRequest, error)
	ListIncoming(ctx context.Context, userID string) ([]models.ConnectionView, error)
	ListOutgoing(ctx context.Context, userID string) ([]models.ConnectionView, error)
	SetOutcome(ctx context.Context, requestID string, accepted bool) error
}

// PostStore captures persistence for posts, comments and like counters.
type PostStore interface {
	Create(ctx context.Context, post models.Post) error
	FindByID(ctx context.Context, id string) (models.Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]models.PostView, error)
	IncrementLikes(ctx context.Context, id string) (int, error)

	CreateComment(ctx context.Context, comment models.Comment) error
	FindCommentByID(ctx context.Context, id string) (models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	ListComments(ctx context.Context, postID string) ([]models.CommentView, error)
}

// BlobStore persists uploaded bytes and returns the stored location.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// ResumeRenderer renders a profile to a stored PDF and returns its filename.
type ResumeRenderer interface {
	Render(ctx context.Context, view models.ProfileView) (string, error)
}
