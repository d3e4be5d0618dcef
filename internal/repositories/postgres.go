package repositories

import (
	"context"
	"errors"
	"fmt"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SanjanaSK25/Career-Connect/internal/db"
	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

const publicUserColumns = `u.id, u.name, u.email, u.username, u.profile_picture`

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// CreateWithProfile persists a new user together with their empty profile.
// Both inserts run in one retryable transaction.
func (r *PostgresUserRepository) CreateWithProfile(ctx context.Context, user models.User, profile models.Profile) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	pastWork := profile.PastWork
	if pastWork == nil {
		pastWork = []models.WorkEntry{}
	}

	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
            INSERT INTO users (id, name, email, username, password_hash, profile_picture, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        `, user.ID, user.Name, user.Email, user.Username, user.Password, user.ProfilePicture, user.CreatedAt, user.UpdatedAt); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
            INSERT INTO profiles (id, user_id, bio, current_position, past_work, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)
        `, profile.ID, user.ID, profile.Bio, profile.CurrentPosition, pastWork, profile.UpdatedAt)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user with profile: %w", err)
	}

	return nil
}

// FindByID fetches a user by primary key.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findBy(ctx, `id = $1`, id)
}

// FindByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findBy(ctx, `email = $1`, email)
}

// FindByUsername fetches a user by their username.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findBy(ctx, `username = $1`, username)
}

func (r *PostgresUserRepository) findBy(ctx context.Context, where string, arg any) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, name, email, username, password_hash, profile_picture, created_at, updated_at
        FROM users
        WHERE `+where, arg)

	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Username, &user.Password, &user.ProfilePicture, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}

	return user, nil
}

// Update modifies an existing user record.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET name = $2, email = $3, username = $4, password_hash = $5, profile_picture = $6, updated_at = $7
        WHERE id = $1
    `, user.ID, user.Name, user.Email, user.Username, user.Password, user.ProfilePicture, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresProfileRepository provides PostgreSQL-backed persistence for profiles.
type PostgresProfileRepository struct {
	pool db.Pool
}

// NewPostgresProfileRepository constructs a profile repository backed by PostgreSQL.
func NewPostgresProfileRepository(pool db.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// FindByUserID fetches the profile owned by the given user.
func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID string) (models.Profile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Profile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, user_id, bio, current_position, past_work, updated_at
        FROM profiles
        WHERE user_id = $1
    `, userID)

	var profile models.Profile
	if err := row.Scan(&profile.ID, &profile.UserID, &profile.Bio, &profile.CurrentPosition, &profile.PastWork, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("select profile: %w", err)
	}

	return profile, nil
}

// ViewByUserID fetches a profile joined with its owner's public fields.
func (r *PostgresProfileRepository) ViewByUserID(ctx context.Context, userID string) (models.ProfileView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ProfileView{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT p.id, p.user_id, p.bio, p.current_position, p.past_work, p.updated_at, `+publicUserColumns+`
        FROM profiles p
        JOIN users u ON u.id = p.user_id
        WHERE p.user_id = $1
    `, userID)

	view, err := scanProfileView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ProfileView{}, ErrNotFound
		}
		return models.ProfileView{}, fmt.Errorf("select profile view: %w", err)
	}

	return view, nil
}

// Update modifies an existing profile record.
func (r *PostgresProfileRepository) Update(ctx context.Context, profile models.Profile) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	pastWork := profile.PastWork
	if pastWork == nil {
		pastWork = []models.WorkEntry{}
	}

	tag, err := conn.Exec(ctx, `
        UPDATE profiles
        SET bio = $2, current_position = $3, past_work = $4, updated_at = $5
        WHERE id = $1
    `, profile.ID, profile.Bio, profile.CurrentPosition, pastWork, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns profiles joined with public user fields, newest accounts
// first, bounded by limit and offset.
func (r *PostgresProfileRepository) List(ctx context.Context, limit, offset int) ([]models.ProfileView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.user_id, p.bio, p.current_position, p.past_work, p.updated_at, `+publicUserColumns+`
        FROM profiles p
        JOIN users u ON u.id = p.user_id
        ORDER BY u.created_at DESC
        LIMIT $1 OFFSET $2
    `, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var views []models.ProfileView
	for rows.Next() {
		view, err := scanProfileView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile view: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return views, nil
}

func scanProfileView(row pgx.Row) (models.ProfileView, error) {
	var view models.ProfileView
	err := row.Scan(
		&view.Profile.ID, &view.Profile.UserID, &view.Profile.Bio, &view.Profile.CurrentPosition,
		&view.Profile.PastWork, &view.Profile.UpdatedAt,
		&view.User.ID, &view.User.Name, &view.User.Email, &view.User.Username, &view.User.ProfilePicture,
	)
	return view, err
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ ProfileRepository = (*PostgresProfileRepository)(nil)
