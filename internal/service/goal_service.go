package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"progressly/api/internal/ids"
	"progressly/api/internal/models"
)

// GoalStore is the slice of the goal collection the goal flows need.
// Every lookup and mutation is scoped by the owning user id.
type GoalStore interface {
	Create(ctx context.Context, goal models.Goal) error
	GetByID(ctx context.Context, ownerID string, goalID string) (models.Goal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Goal, error)
	Update(ctx context.Context, goal models.Goal) error
	Delete(ctx context.Context, ownerID string, goalID string) error
	AddContribution(ctx context.Context, contribution models.Contribution) error
}

// StreakStore records streak advances on the owning user.
type StreakStore interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdateStreak(ctx context.Context, id string, streak int, lastContributionAt time.Time) error
}

type GoalService struct {
	goals GoalStore
	users StreakStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewGoalService(goals GoalStore, users StreakStore, log zerolog.Logger) *GoalService {
	return &GoalService{
		goals: goals,
		users: users,
		log:   log,
		now:   time.Now,
	}
}

type GoalInput struct {
	Title       string
	Description string
	Target      float64
}

func (s *GoalService) Create(ctx context.Context, ownerID string, input GoalInput) (models.Goal, error) {
	if input.Title == "" || input.Target <= 0 {
		return models.Goal{}, validationErr("Please provide a title and target for the goal.")
	}

	now := s.now().UTC()
	goal := models.Goal{
		ID:          ids.New(),
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Target:      input.Target,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

func (s *GoalService) Get(ctx context.Context, ownerID string, goalID string) (models.Goal, error) {
	return s.goals.GetByID(ctx, ownerID, goalID)
}

func (s *GoalService) List(ctx context.Context, ownerID string) ([]models.Goal, error) {
	return s.goals.ListByOwner(ctx, ownerID)
}

// Update applies the provided fields; zero-valued fields keep the stored
// value, matching the partial-update behavior of the original endpoints.
func (s *GoalService) Update(ctx context.Context, ownerID string, goalID string, input GoalInput) (models.Goal, error) {
	goal, err := s.goals.GetByID(ctx, ownerID, goalID)
	if err != nil {
		return models.Goal{}, err
	}

	if input.Title != "" {
		goal.Title = input.Title
	}
	if input.Description != "" {
		goal.Description = input.Description
	}
	if input.Target > 0 {
		goal.Target = input.Target
	}

	if err := s.goals.Update(ctx, goal); err != nil {
		return models.Goal{}, err
	}
	goal.UpdatedAt = s.now().UTC()
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, ownerID string, goalID string) error {
	return s.goals.Delete(ctx, ownerID, goalID)
}

// Contribute appends a positive contribution to an owned goal and
// advances the owner's streak: a contribution on the day after the last
// one extends it, a repeat on the same day keeps it, a longer gap
// restarts it at 1.
func (s *GoalService) Contribute(ctx context.Context, ownerID string, goalID string, amount float64) (models.Goal, error) {
	if amount <= 0 {
		return models.Goal{}, validationErr("Please provide a valid contribution amount.")
	}

	goal, err := s.goals.GetByID(ctx, ownerID, goalID)
	if err != nil {
		return models.Goal{}, err
	}

	now := s.now().UTC()
	contribution := models.Contribution{
		ID:        ids.New(),
		GoalID:    goal.ID,
		Amount:    amount,
		CreatedAt: now,
	}

	if err := s.goals.AddContribution(ctx, contribution); err != nil {
		return models.Goal{}, err
	}
	goal.Contributions = append(goal.Contributions, contribution)
	goal.UpdatedAt = now

	if err := s.advanceStreak(ctx, ownerID, now); err != nil {
		// The contribution is already recorded; a streak bookkeeping
		// failure must not fail the request.
		s.log.Warn().Err(err).Str("user_id", ownerID).Msg("streak update failed")
	}

	return goal, nil
}

func (s *GoalService) advanceStreak(ctx context.Context, userID string, at time.Time) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	streak := 1
	if user.LastContributionAt != nil {
		today := dateOf(at)
		last := dateOf(user.LastContributionAt.UTC())
		switch {
		case last.Equal(today):
			streak = user.Streak
			if streak == 0 {
				streak = 1
			}
		case last.Equal(today.AddDate(0, 0, -1)):
			streak = user.Streak + 1
		}
	}

	return s.users.UpdateStreak(ctx, userID, streak, at)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
