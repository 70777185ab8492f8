package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"progressly/api/internal/repository"
	"progressly/api/internal/service"
)

func (h HandlerSet) GetMe(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.fail(c, err, "get-user")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	if _, ok := h.subject(c); !ok {
		return
	}

	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list-users")
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, newUserResponse(user))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile accepts a multipart form so the profile fields and the
// optional photo arrive in one request. Only the photo's durable URL is
// persisted; the bytes go to the object store.
func (h HandlerSet) UpdateProfile(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	input := service.ProfileInput{
		Title:       c.PostForm("title"),
		Semester:    c.PostForm("semester"),
		Department:  c.PostForm("department"),
		DateOfBirth: c.PostForm("dob"),
	}

	if header, err := c.FormFile("photo"); err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			h.fail(c, err, "update-profile")
			return
		}
		defer file.Close()

		input.Photo = &service.PhotoUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
			Size:        header.Size,
		}
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.fail(c, err, "update-profile")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	Password    string `json:"password"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please add old and new password."})
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Old password is incorrect"})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			h.fail(c, err, "change-password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password change successful"})
}
