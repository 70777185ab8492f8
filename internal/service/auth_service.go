package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"progressly/api/internal/config"
	"progressly/api/internal/ids"
	"progressly/api/internal/models"
	"progressly/api/internal/repository"
	"progressly/api/internal/security"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the slice of the credential store the auth flows need.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SaveProfile(ctx context.Context, user models.User) error
	UpdatePasswordHash(ctx context.Context, id string, hash []byte) error
}

// PhotoStore uploads a profile photo and returns its durable URL.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, filename string, contentType string, r io.Reader, size int64) (string, error)
}

// AttemptCounter tracks failed sign-in attempts per key within a rolling
// window; satisfied by the redis-backed counter.
type AttemptCounter interface {
	Count(ctx context.Context, key string) (int, error)
	Record(ctx context.Context, key string, window time.Duration) error
	Clear(ctx context.Context, key string) error
}

type AuthService struct {
	users    UserStore
	photos   PhotoStore
	attempts AttemptCounter
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, photos PhotoStore, attempts AttemptCounter, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		photos:   photos,
		attempts: attempts,
		cfg:      cfg,
		log:      log,
	}
}

type SignUpInput struct {
	Fullname string
	Email    string
	Password string
}

// SignUp validates the input, rejects duplicate emails and creates the
// identity record. The password is hashed exactly once, here, before the
// record ever reaches the store.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (models.User, error) {
	input.Fullname = strings.TrimSpace(input.Fullname)
	input.Email = normalizeEmail(input.Email)

	if input.Fullname == "" || input.Email == "" || input.Password == "" {
		return models.User{}, validationErr("Please fill in all required fields.")
	}
	if len(input.Password) < 6 {
		return models.User{}, validationErr("Password must be at least 6 characters.")
	}
	if !emailPattern.MatchString(input.Email) {
		return models.User{}, validationErr("Please enter a valid email.")
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           ids.New(),
		Fullname:     input.Fullname,
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user signed up")
	return user, nil
}

type SignInInput struct {
	Email    string
	Password string
}

// SignIn resolves the account by email and verifies the password against
// the stored hash. Repeated failures for one email are throttled.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (models.User, error) {
	input.Email = normalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return models.User{}, validationErr("Please enter both email and password.")
	}

	if err := s.checkThrottle(ctx, input.Email); err != nil {
		return models.User{}, err
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return models.User{}, err
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		s.recordFailure(ctx, input.Email)
		return models.User{}, ErrInvalidCredentials
	}

	s.clearFailures(ctx, input.Email)
	return user, nil
}

// ChangePassword swaps the stored hash only after the old password
// verifies; a mismatch leaves the record untouched.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return validationErr("Please add old and new password.")
	}
	if len(newPassword) < 6 {
		return validationErr("Password must be at least 6 characters.")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !security.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

type PhotoUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type ProfileInput struct {
	Title       string
	Semester    string
	Department  string
	DateOfBirth string
	Photo       *PhotoUpload
}

// UpdateProfile applies the submitted profile fields and, when a photo is
// attached, stores it externally and keeps only the returned URL. The
// write path never touches the password column.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	user.Title = input.Title
	user.Semester = input.Semester
	user.Department = input.Department
	user.DateOfBirth = input.DateOfBirth

	if input.Photo != nil {
		url, err := s.photos.UploadPhoto(ctx, input.Photo.Filename, input.Photo.ContentType, input.Photo.Reader, input.Photo.Size)
		if err != nil {
			return models.User{}, fmt.Errorf("upload photo: %w", err)
		}
		user.PhotoURL = &url
	}

	if err := s.users.SaveProfile(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) checkThrottle(ctx context.Context, email string) error {
	if s.attempts == nil {
		return nil
	}
	count, err := s.attempts.Count(ctx, throttleKey(email))
	if err != nil {
		s.log.Warn().Err(err).Msg("sign-in throttle lookup failed")
		return nil
	}
	if count >= s.cfg.Security.SignInMaxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.attempts == nil {
		return
	}
	if err := s.attempts.Record(ctx, throttleKey(email), s.cfg.Security.SignInWindow); err != nil {
		s.log.Warn().Err(err).Msg("sign-in throttle record failed")
	}
}

func (s *AuthService) clearFailures(ctx context.Context, email string) {
	if s.attempts == nil {
		return
	}
	if err := s.attempts.Clear(ctx, throttleKey(email)); err != nil {
		s.log.Warn().Err(err).Msg("sign-in throttle clear failed")
	}
}

func throttleKey(email string) string {
	return "signin:fail:" + email
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
