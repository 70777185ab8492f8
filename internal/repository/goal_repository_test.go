package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"progressly/api/internal/models"
)

func newGoalMock(t *testing.T) (*GoalRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewGoalRepository(mock), mock
}

func goalRow(id, userID string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "user_id", "title", "description", "target", "created_at", "updated_at"}).
		AddRow(id, userID, "Read 12 books", "", 12.0, now, now)
}

func emptyContributions() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "goal_id", "amount", "created_at"})
}

func TestGoalRepository_Create(t *testing.T) {
	repo, mock := newGoalMock(t)
	defer mock.Close()

	goal := models.Goal{
		ID:     "g1",
		UserID: "u1",
		Title:  "Read 12 books",
		Target: 12,
	}

	mock.ExpectExec("INSERT INTO goals").
		WithArgs(goal.ID, goal.UserID, goal.Title, goal.Description, goal.Target).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), goal))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_GetByID_ScopedToOwner(t *testing.T) {
	repo, mock := newGoalMock(t)
	defer mock.Close()

	mock.ExpectQuery("FROM goals").
		WithArgs("g1", "u1").
		WillReturnRows(goalRow("g1", "u1"))
	mock.ExpectQuery("FROM contributions").
		WithArgs("g1").
		WillReturnRows(emptyContributions())

	goal, err := repo.GetByID(context.Background(), "u1", "g1")
	require.NoError(t, err)
	require.Equal(t, "g1", goal.ID)
	require.Empty(t, goal.Contributions)

	// Another user's goal resolves to not-found, not to the record.
	mock.ExpectQuery("FROM goals").
		WithArgs("g1", "intruder").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "intruder", "g1")
	require.ErrorIs(t, err, ErrGoalNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_GetByID_LoadsContributions(t *testing.T) {
	repo, mock := newGoalMock(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("FROM goals").
		WithArgs("g1", "u1").
		WillReturnRows(goalRow("g1", "u1"))
	mock.ExpectQuery("FROM contributions").
		WithArgs("g1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "goal_id", "amount", "created_at"}).
			AddRow("c1", "g1", 2.0, now.Add(-time.Hour)).
			AddRow("c2", "g1", 3.0, now))

	goal, err := repo.GetByID(context.Background(), "u1", "g1")
	require.NoError(t, err)
	require.Len(t, goal.Contributions, 2)
	require.Equal(t, 5.0, goal.Progress())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_Delete(t *testing.T) {
	repo, mock := newGoalMock(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM goals").
		WithArgs("g1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), "u1", "g1"))

	mock.ExpectExec("DELETE FROM goals").
		WithArgs("g1", "intruder").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "intruder", "g1"), ErrGoalNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_AddContribution(t *testing.T) {
	repo, mock := newGoalMock(t)
	defer mock.Close()

	now := time.Now().UTC()
	contribution := models.Contribution{
		ID:        "c1",
		GoalID:    "g1",
		Amount:    2.5,
		CreatedAt: now,
	}

	// The statement both records the contribution and touches the goal.
	mock.ExpectExec(`(?s)INSERT INTO contributions.+UPDATE goals SET updated_at`).
		WithArgs(contribution.ID, contribution.GoalID, contribution.Amount, contribution.CreatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.AddContribution(context.Background(), contribution))
	require.NoError(t, mock.ExpectationsWereMet())
}
