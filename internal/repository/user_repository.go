package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"progressly/api/internal/database"
	"progressly/api/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	pool database.Pool
}

func NewUserRepository(pool database.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, fullname, email, password_hash, title, semester, department, date_of_birth, photo_url, streak, last_contribution_at, created_at, updated_at`

// Create inserts a new identity record. The password hash is computed by
// the caller before this point; plaintext never reaches the write path.
func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, fullname, email, password_hash, title, semester, department, date_of_birth, photo_url, streak, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, 0, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Fullname,
		user.Email,
		user.PasswordHash,
		user.Title,
		user.Semester,
		user.Department,
		user.DateOfBirth,
		user.PhotoURL,
	)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SaveProfile persists the mutable profile fields. The password column is
// deliberately not part of this statement, so a profile save can never
// re-hash or clobber the stored credential.
func (r *UserRepository) SaveProfile(ctx context.Context, user models.User) error {
	const query = `
		UPDATE users
		SET title = $2, semester = $3, department = $4, date_of_birth = $5, photo_url = $6, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Title,
		user.Semester,
		user.Department,
		user.DateOfBirth,
		user.PhotoURL,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id string, hash []byte) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateStreak(ctx context.Context, id string, streak int, lastContributionAt time.Time) error {
	const query = `UPDATE users SET streak = $2, last_contribution_at = $3, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, streak, lastContributionAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResetLapsedStreaks zeroes the streak of every user whose last
// contribution predates the cutoff. Run by the nightly sweep.
func (r *UserRepository) ResetLapsedStreaks(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
		UPDATE users
		SET streak = 0, updated_at = NOW()
		WHERE streak > 0 AND last_contribution_at IS NOT NULL AND last_contribution_at < $1
	`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Fullname,
		&user.Email,
		&user.PasswordHash,
		&user.Title,
		&user.Semester,
		&user.Department,
		&user.DateOfBirth,
		&user.PhotoURL,
		&user.Streak,
		&user.LastContributionAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
