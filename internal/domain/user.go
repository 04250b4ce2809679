package domain

import "time"

// User is an account that can authenticate against the directory.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Creator returns the display identity used when the user is joined onto
// employee records.
func (u *User) Creator() *Creator {
	return &Creator{ID: u.ID, Name: u.Name, Email: u.Email}
}
