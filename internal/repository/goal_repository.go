package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"progressly/api/internal/database"
	"progressly/api/internal/models"
)

var ErrGoalNotFound = errors.New("goal not found")

type GoalRepository struct {
	pool database.Pool
}

func NewGoalRepository(pool database.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

func (r *GoalRepository) Create(ctx context.Context, goal models.Goal) error {
	const query = `
		INSERT INTO goals (
			id, user_id, title, description, target, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Target,
	)
	return err
}

// GetByID resolves a goal only within its owner's scope; a goal belonging
// to another user is indistinguishable from a missing one.
func (r *GoalRepository) GetByID(ctx context.Context, ownerID string, goalID string) (models.Goal, error) {
	const query = `
		SELECT id, user_id, title, description, target, created_at, updated_at
		FROM goals
		WHERE id = $1 AND user_id = $2
	`

	row := r.pool.QueryRow(ctx, query, goalID, ownerID)
	var goal models.Goal
	if err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&goal.Description,
		&goal.Target,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Goal{}, ErrGoalNotFound
		}
		return models.Goal{}, err
	}

	contributions, err := r.listContributions(ctx, goal.ID)
	if err != nil {
		return models.Goal{}, err
	}
	goal.Contributions = contributions
	return goal, nil
}

func (r *GoalRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Goal, error) {
	const query = `
		SELECT id, user_id, title, description, target, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(
			&goal.ID,
			&goal.UserID,
			&goal.Title,
			&goal.Description,
			&goal.Target,
			&goal.CreatedAt,
			&goal.UpdatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range goals {
		contributions, err := r.listContributions(ctx, goals[i].ID)
		if err != nil {
			return nil, err
		}
		goals[i].Contributions = contributions
	}
	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, goal models.Goal) error {
	const query = `
		UPDATE goals
		SET title = $3, description = $4, target = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	cmd, err := r.pool.Exec(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Target,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, ownerID string, goalID string) error {
	const query = `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, goalID, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// AddContribution records the contribution and bumps the parent goal's
// updated_at in the same statement.
func (r *GoalRepository) AddContribution(ctx context.Context, contribution models.Contribution) error {
	const query = `
		WITH inserted AS (
			INSERT INTO contributions (id, goal_id, amount, created_at)
			VALUES ($1, $2, $3, $4)
		)
		UPDATE goals SET updated_at = $4 WHERE id = $2
	`
	_, err := r.pool.Exec(ctx, query,
		contribution.ID,
		contribution.GoalID,
		contribution.Amount,
		contribution.CreatedAt,
	)
	return err
}

func (r *GoalRepository) listContributions(ctx context.Context, goalID string) ([]models.Contribution, error) {
	const query = `
		SELECT id, goal_id, amount, created_at
		FROM contributions
		WHERE goal_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []models.Contribution
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.GoalID, &c.Amount, &c.CreatedAt); err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}
