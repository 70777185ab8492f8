package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"progressly/api/internal/models"
	"progressly/api/internal/repository"
)

type stubGoalStore struct {
	goals         map[string]models.Goal
	contributions []models.Contribution
}

func newStubGoalStore() *stubGoalStore {
	return &stubGoalStore{goals: make(map[string]models.Goal)}
}

func (s *stubGoalStore) Create(_ context.Context, goal models.Goal) error {
	s.goals[goal.ID] = goal
	return nil
}

func (s *stubGoalStore) GetByID(_ context.Context, ownerID string, goalID string) (models.Goal, error) {
	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != ownerID {
		return models.Goal{}, repository.ErrGoalNotFound
	}
	return goal, nil
}

func (s *stubGoalStore) ListByOwner(_ context.Context, ownerID string) ([]models.Goal, error) {
	var goals []models.Goal
	for _, goal := range s.goals {
		if goal.UserID == ownerID {
			goals = append(goals, goal)
		}
	}
	return goals, nil
}

func (s *stubGoalStore) Update(_ context.Context, goal models.Goal) error {
	stored, ok := s.goals[goal.ID]
	if !ok || stored.UserID != goal.UserID {
		return repository.ErrGoalNotFound
	}
	s.goals[goal.ID] = goal
	return nil
}

func (s *stubGoalStore) Delete(_ context.Context, ownerID string, goalID string) error {
	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != ownerID {
		return repository.ErrGoalNotFound
	}
	delete(s.goals, goalID)
	return nil
}

func (s *stubGoalStore) AddContribution(_ context.Context, contribution models.Contribution) error {
	s.contributions = append(s.contributions, contribution)
	return nil
}

type stubStreakStore struct {
	user models.User
}

func (s *stubStreakStore) GetByID(_ context.Context, id string) (models.User, error) {
	if id != s.user.ID {
		return models.User{}, repository.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubStreakStore) UpdateStreak(_ context.Context, _ string, streak int, lastContributionAt time.Time) error {
	s.user.Streak = streak
	s.user.LastContributionAt = &lastContributionAt
	return nil
}

func newGoalService(goals GoalStore, users StreakStore) *GoalService {
	return NewGoalService(goals, users, zerolog.Nop())
}

func TestGoalCreate_Validation(t *testing.T) {
	svc := newGoalService(newStubGoalStore(), &stubStreakStore{})
	ctx := context.Background()

	var vErr *ValidationError

	_, err := svc.Create(ctx, "u1", GoalInput{Title: "", Target: 10})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Create(ctx, "u1", GoalInput{Title: "Run", Target: 0})
	require.ErrorAs(t, err, &vErr)

	goal, err := svc.Create(ctx, "u1", GoalInput{Title: "Run 100km", Target: 100})
	require.NoError(t, err)
	require.Equal(t, "u1", goal.UserID)
	require.NotEmpty(t, goal.ID)
}

func TestGoalUpdate_PartialFields(t *testing.T) {
	store := newStubGoalStore()
	svc := newGoalService(store, &stubStreakStore{})
	ctx := context.Background()

	goal, err := svc.Create(ctx, "u1", GoalInput{Title: "Run 100km", Description: "weekly runs", Target: 100})
	require.NoError(t, err)

	// Zero-valued fields keep the stored values.
	updated, err := svc.Update(ctx, "u1", goal.ID, GoalInput{Target: 150})
	require.NoError(t, err)
	require.Equal(t, "Run 100km", updated.Title)
	require.Equal(t, "weekly runs", updated.Description)
	require.Equal(t, 150.0, updated.Target)

	_, err = svc.Update(ctx, "someone-else", goal.ID, GoalInput{Target: 1})
	require.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestContribute_Validation(t *testing.T) {
	store := newStubGoalStore()
	users := &stubStreakStore{user: models.User{ID: "u1"}}
	svc := newGoalService(store, users)
	ctx := context.Background()

	goal, err := svc.Create(ctx, "u1", GoalInput{Title: "Run 100km", Target: 100})
	require.NoError(t, err)

	var vErr *ValidationError
	_, err = svc.Contribute(ctx, "u1", goal.ID, 0)
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "Please provide a valid contribution amount.", vErr.Message)

	_, err = svc.Contribute(ctx, "u1", goal.ID, -5)
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Contribute(ctx, "intruder", goal.ID, 5)
	require.ErrorIs(t, err, repository.ErrGoalNotFound)
	require.Empty(t, store.contributions)
}

func TestContribute_StreakProgression(t *testing.T) {
	store := newStubGoalStore()
	users := &stubStreakStore{user: models.User{ID: "u1"}}
	svc := newGoalService(store, users)
	ctx := context.Background()

	goal, err := svc.Create(ctx, "u1", GoalInput{Title: "Run 100km", Target: 100})
	require.NoError(t, err)

	day1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day1 }

	// First ever contribution starts the streak.
	updated, err := svc.Contribute(ctx, "u1", goal.ID, 5)
	require.NoError(t, err)
	require.Len(t, updated.Contributions, 1)
	require.Equal(t, 1, users.user.Streak)

	// Contributing counts as touching the goal.
	require.Equal(t, day1, updated.UpdatedAt)

	// A second contribution the same day leaves it unchanged.
	svc.now = func() time.Time { return day1.Add(6 * time.Hour) }
	_, err = svc.Contribute(ctx, "u1", goal.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 1, users.user.Streak)

	// The next day extends it.
	svc.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	_, err = svc.Contribute(ctx, "u1", goal.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, users.user.Streak)

	// A skipped day restarts it at 1.
	svc.now = func() time.Time { return day1.AddDate(0, 0, 4) }
	_, err = svc.Contribute(ctx, "u1", goal.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 1, users.user.Streak)

	require.Len(t, store.contributions, 4)
}
