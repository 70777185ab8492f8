package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"progressly/api/internal/models"
	"progressly/api/internal/repository"
	"progressly/api/internal/service"
	"progressly/api/internal/session"
)

type userResponse struct {
	ID                 string     `json:"id"`
	Fullname           string     `json:"fullname"`
	Email              string     `json:"email"`
	Title              string     `json:"title,omitempty"`
	Semester           string     `json:"semester,omitempty"`
	Department         string     `json:"department,omitempty"`
	DateOfBirth        string     `json:"dob,omitempty"`
	Photo              *string    `json:"photo,omitempty"`
	Streak             int        `json:"streak"`
	LastContributionAt *time.Time `json:"lastContributionAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// authResponse mirrors the user record plus the issued token; the
// password hash is never part of it.
type authResponse struct {
	userResponse
	Token string `json:"token"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:                 user.ID,
		Fullname:           user.Fullname,
		Email:              user.Email,
		Title:              user.Title,
		Semester:           user.Semester,
		Department:         user.Department,
		DateOfBirth:        user.DateOfBirth,
		Photo:              user.PhotoURL,
		Streak:             user.Streak,
		LastContributionAt: user.LastContributionAt,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}

type signUpRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please fill in all required fields."})
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), service.SignUpInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err, "sign-up")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.fail(c, err, "sign-up")
		return
	}
	session.Attach(c, token, h.tokens.TTL())

	c.JSON(http.StatusCreated, authResponse{
		userResponse: newUserResponse(user),
		Token:        token,
	})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please enter both email and password."})
		return
	}

	user, err := h.auth.SignIn(c.Request.Context(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found, please sign up."})
		case errors.Is(err, service.ErrInvalidCredentials):
			// Deliberately generic: does not reveal which part was wrong.
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password."})
		default:
			h.fail(c, err, "sign-in")
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.fail(c, err, "sign-in")
		return
	}
	session.Attach(c, token, h.tokens.TTL())

	c.JSON(http.StatusOK, authResponse{
		userResponse: newUserResponse(user),
		Token:        token,
	})
}

// SignOut is stateless server-side: it only overwrites the cookie with an
// already-expired one.
func (h HandlerSet) SignOut(c *gin.Context) {
	session.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully signed out"})
}

// CheckAuth is the status probe: it reports a bare boolean and tolerates
// absent or invalid tokens instead of rejecting the request.
func (h HandlerSet) CheckAuth(c *gin.Context) {
	token, ok := session.TokenFrom(c)
	if !ok {
		c.JSON(http.StatusOK, false)
		return
	}
	if _, err := h.tokens.Verify(token); err != nil {
		c.JSON(http.StatusOK, false)
		return
	}
	c.JSON(http.StatusOK, true)
}
