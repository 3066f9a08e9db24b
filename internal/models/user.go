package models

import (
	"time"

	"github.com/jobmaroc/jobboard/internal/session"
)

// User captures application-facing fields for an authenticated identity.
// Email doubles as the login username.
type User struct {
	ID               int64            `json:"id"`
	Email            string           `json:"email"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Phone            string           `json:"phone"`
	Role             session.Role     `json:"role"`
	Status           AcceptanceStatus `json:"status"`
	Address          string           `json:"address,omitempty"`
	Nationality      string           `json:"nationality,omitempty"`
	City             string           `json:"city,omitempty"`
	BirthDate        *time.Time       `json:"birthDate,omitempty"`
	ImagePath        string           `json:"imagePath,omitempty"`
	PasswordHash     string           `json:"-"`
	RegistrationDate time.Time        `json:"registrationDate"`
	LastLoginDate    *time.Time       `json:"lastLoginDate,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// CanSignIn reports whether an administrator has accepted the account.
func (u User) CanSignIn() bool { return u.Status == StatusAccepted }
