package models

import "time"

// Talent is the job-seeker profile attached to a user.
type Talent struct {
	ID          int64        `json:"talentId"`
	UserID      int64        `json:"userId"`
	User        User         `json:"user"`
	Skills      []Skill      `json:"skills"`
	Diplomas    []Diploma    `json:"diplomas"`
	Experiences []Experience `json:"experiences"`
	CVs         []CV         `json:"cvs"`
}

// Manager is the recruiter profile attached to a user.
type Manager struct {
	ID        int64     `json:"managerId"`
	UserID    int64     `json:"userId"`
	User      User      `json:"user"`
	Company   *Company  `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Company is the employer a manager recruits for.
type Company struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Website        string `json:"website,omitempty"`
	Description    string `json:"description,omitempty"`
	Logo           string `json:"logo,omitempty"`
	SectorActivity string `json:"sectorActivity,omitempty"`
}

type Skill struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type Diploma struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Institution string     `json:"institution"`
	ObtainedAt  *time.Time `json:"obtainedAt,omitempty"`
}

type Experience struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// CV is a stored résumé file belonging to a talent.
type CV struct {
	ID         int64     `json:"id"`
	TalentID   int64     `json:"talentId"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploadedAt"`
}
