package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SanjanaSK25/Career-Connect/internal/db"
	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

// PostgresPostRepository provides PostgreSQL-backed persistence for posts and comments.
type PostgresPostRepository struct {
	pool db.Pool
}

// NewPostgresPostRepository constructs a post repository backed by PostgreSQL.
func NewPostgresPostRepository(pool db.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

// Create stores a new post record.
func (r *PostgresPostRepository) Create(ctx context.Context, post models.Post) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO posts (id, author_id, body, media, media_type, likes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, post.ID, post.Author, post.Body, post.Media, post.MediaType, post.Likes, post.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// FindByID loads a single post record.
func (r *PostgresPostRepository) FindByID(ctx context.Context, id string) (models.Post, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, author_id, body, media, media_type, likes, created_at
        FROM posts
        WHERE id = $1
    `, id)

	var post models.Post
	if err := row.Scan(&post.ID, &post.Author, &post.Body, &post.Media, &post.MediaType, &post.Likes, &post.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, fmt.Errorf("select post: %w", err)
	}

	return post, nil
}

// Delete removes a post and its comments.
func (r *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns posts joined with author public fields, newest first, bounded
// by limit and offset.
func (r *PostgresPostRepository) List(ctx context.Context, limit, offset int) ([]models.PostView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.author_id, p.body, p.media, p.media_type, p.likes, p.created_at, `+publicUserColumns+`
        FROM posts p
        JOIN users u ON u.id = p.author_id
        ORDER BY p.created_at DESC
        LIMIT $1 OFFSET $2
    `, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var views []models.PostView
	for rows.Next() {
		var view models.PostView
		if err := rows.Scan(
			&view.Post.ID, &view.Post.Author, &view.Post.Body, &view.Post.Media, &view.Post.MediaType,
			&view.Post.Likes, &view.Post.CreatedAt,
			&view.Author.ID, &view.Author.Name, &view.Author.Email, &view.Author.Username, &view.Author.ProfilePicture,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return views, nil
}

// IncrementLikes adds one to the post's like counter and returns the new
// value. The increment is unconditional: no actor is recorded and repeat
// calls keep counting. Atomicity comes from the single UPDATE statement.
func (r *PostgresPostRepository) IncrementLikes(ctx context.Context, id string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE posts
        SET likes = likes + 1
        WHERE id = $1
        RETURNING likes
    `, id)

	var likes int
	if err := row.Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("increment likes: %w", err)
	}

	return likes, nil
}

// CreateComment stores a new comment attached to a post.
func (r *PostgresPostRepository) CreateComment(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO comments (id, post_id, author_id, body, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, comment.ID, comment.PostID, comment.Author, comment.Body, comment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// FindCommentByID loads a single comment record.
func (r *PostgresPostRepository) FindCommentByID(ctx context.Context, id string) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, post_id, author_id, body, created_at
        FROM comments
        WHERE id = $1
    `, id)

	var comment models.Comment
	if err := row.Scan(&comment.ID, &comment.PostID, &comment.Author, &comment.Body, &comment.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("select comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a single comment.
func (r *PostgresPostRepository) DeleteComment(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListComments returns a post's comments joined with author public fields,
// newest first.
func (r *PostgresPostRepository) ListComments(ctx context.Context, postID string) ([]models.CommentView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT c.id, c.post_id, c.author_id, c.body, c.created_at, `+publicUserColumns+`
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.post_id = $1
        ORDER BY c.created_at DESC
    `, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var views []models.CommentView
	for rows.Next() {
		var view models.CommentView
		if err := rows.Scan(
			&view.Comment.ID, &view.Comment.PostID, &view.Comment.Author, &view.Comment.Body, &view.Comment.CreatedAt,
			&view.Author.ID, &view.Author.Name, &view.Author.Email, &view.Author.Username, &view.Author.ProfilePicture,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return views, nil
}

var _ PostRepository = (*PostgresPostRepository)(nil)
