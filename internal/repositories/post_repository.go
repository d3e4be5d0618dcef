package repositories

import (
	"context"

	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

// PostRepository defines data access for posts, comments and like counters.
type PostRepository interface {
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
