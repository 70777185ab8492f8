package models

import "time"

type User struct {
	ID                 string
	Fullname           string
	Email              string
	PasswordHash       []byte
	Title              string
	Semester           string
	Department         string
	DateOfBirth        string
	PhotoURL           *string
	Streak             int
	LastContributionAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
