package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SanjanaSK25/Career-Connect/internal/db"
	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

// PostgresConnectionRepository provides PostgreSQL-backed persistence for
// connection requests. The unique index on (requester_id, target_id) closes
// the check-then-insert race on duplicate submissions.
type PostgresConnectionRepository struct {
	pool db.Pool
}

// NewPostgresConnectionRepository constructs a connection repository backed by PostgreSQL.
func NewPostgresConnectionRepository(pool db.Pool) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{pool: pool}
}

// CreateRequest persists a new pending request. ErrConflict is returned when
// any request already exists for the ordered pair, whatever its outcome.
func (r *PostgresConnectionRepository) CreateRequest(ctx context.Context, request models.ConnectionRequest) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO connection_requests (id, requester_id, target_id, accepted, created_at, responded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, request.ID, request.Requester, request.Target, toNullBool(request.Accepted), request.CreatedAt, toNullTime(request.RespondedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert connection request: %w", err)
	}

	return nil
}

// FindByID loads a single request record.
func (r *PostgresConnectionRepository) FindByID(ctx context.Context, id string) (models.ConnectionRequest, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, requester_id, target_id, accepted, created_at, responded_at
        FROM connection_requests
        WHERE id = $1
    `, id)

	request, err := scanConnectionRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ConnectionRequest{}, ErrNotFound
		}
		return models.ConnectionRequest{}, fmt.Errorf("select connection request: %w", err)
	}

	return request, nil
}

// ListIncoming returns requests made TO the user, joined with each
// requester's public fields, newest first.
func (r *PostgresConnectionRepository) ListIncoming(ctx context.Context, userID string) ([]models.ConnectionView, error) {
	return r.list(ctx, `
        SELECT c.id, c.requester_id, c.target_id, c.accepted, c.created_at, c.responded_at, `+publicUserColumns+`
        FROM connection_requests c
        JOIN users u ON u.id = c.requester_id
        WHERE c.target_id = $1
        ORDER BY c.created_at DESC
    `, userID)
}

// ListOutgoing returns requests made BY the user, joined with each target's
// public fields, newest first.
func (r *PostgresConnectionRepository) ListOutgoing(ctx context.Context, userID string) ([]models.ConnectionView, error) {
	return r.list(ctx, `
        SELECT c.id, c.requester_id, c.target_id, c.accepted, c.created_at, c.responded_at, `+publicUserColumns+`
        FROM connection_requests c
        JOIN users u ON u.id = c.target_id
        WHERE c.requester_id = $1
        ORDER BY c.created_at DESC
    `, userID)
}

func (r *PostgresConnectionRepository) list(ctx context.Context, query, userID string) ([]models.ConnectionView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query connection requests: %w", err)
	}
	defer rows.Close()

	var views []models.ConnectionView
	for rows.Next() {
		var (
			view        models.ConnectionView
			accepted    sql.NullBool
			respondedAt sql.NullTime
		)
		if err := rows.Scan(
			&view.Request.ID, &view.Request.Requester, &view.Request.Target, &accepted,
			&view.Request.CreatedAt, &respondedAt,
			&view.With.ID, &view.With.Name, &view.With.Email, &view.With.Username, &view.With.ProfilePicture,
		); err != nil {
			return nil, fmt.Errorf("scan connection request: %w", err)
		}
		view.Request.Accepted = fromNullBool(accepted)
		view.Request.RespondedAt = fromNullTime(respondedAt)
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connection requests: %w", err)
	}

	return views, nil
}

// SetOutcome resolves a request. The outcome sticks: a resolved record keeps
// its responded_at and can be flipped but never returned to pending.
func (r *PostgresConnectionRepository) SetOutcome(ctx context.Context, requestID string, accepted bool) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE connection_requests
        SET accepted = $2, responded_at = $3
        WHERE id = $1
    `, requestID, accepted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update connection request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanConnectionRequest(row pgx.Row) (models.ConnectionRequest, error) {
	var (
		request     models.ConnectionRequest
		accepted    sql.NullBool
		respondedAt sql.NullTime
	)
	if err := row.Scan(&request.ID, &request.Requester, &request.Target, &accepted, &request.CreatedAt, &respondedAt); err != nil {
		return models.ConnectionRequest{}, err
	}
	request.Accepted = fromNullBool(accepted)
	request.RespondedAt = fromNullTime(respondedAt)
	return request, nil
}

func toNullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Valid: true, Bool: *b}
}

func fromNullBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Valid: true, Time: t.UTC()}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

var _ ConnectionRepository = (*PostgresConnectionRepository)(nil)
