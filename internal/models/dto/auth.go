package dto

import "github.com/jobmaroc/jobboard/internal/models"

// LoginRequest carries sign-in credentials. Username is the account email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the session the client stores after signing in.
type LoginResponse struct {
	JWTToken string                  `json:"jwtToken"`
	Username string                  `json:"username"`
	UserRole string                  `json:"userRole"`
	Status   models.AcceptanceStatus `json:"status"`
}

// GoogleSignInRequest carries a Google ID token obtained by the browser.
type GoogleSignInRequest struct {
	IDToken string `json:"googleIdToken"`
}

// SignupRequest is the final payload of the multi-step signup wizard.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Nationality string `json:"nationality"`
	City        string `json:"city"`
	BirthDate   string `json:"birthDate"`

	// Manager only.
	Company *CompanyRequest `json:"company,omitempty"`
}

type CompanyRequest struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Website        string `json:"website"`
	Description    string `json:"description"`
	SectorActivity string `json:"sectorActivity"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type ProfileUpdateRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Nationality *string `json:"nationality"`
	City        *string `json:"city"`
	ImagePath   *string `json:"imagePath"`
}

// ProfileResponse is the signed-in user's account plus their role profile.
type ProfileResponse struct {
	User    models.User     `json:"user"`
	Talent  *models.Talent  `json:"talent,omitempty"`
	Manager *models.Manager `json:"manager,omitempty"`
}
