package storage

import (
	"context"
	"errors"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrConflict indicates the change is not allowed in the record's current state.
var ErrConflict = errors.New("conflicting state")

// UserFilter narrows ListUsers. Zero values match everything.
type UserFilter struct {
	Role   session.Role
	Status models.AcceptanceStatus
}

// UserStore captures persistence operations for accounts and their role profiles.
type UserStore interface {
	// CreateUser inserts the account and, for talents and managers, the role profile
	// (and the manager's company when given) in one transaction.
	CreateUser(ctx context.Context, user models.User, company *models.Company) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	UpdateStatus(ctx context.Context, id int64, status models.AcceptanceStatus) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, id int64) error
}

// OfferStore persists job offers.
type OfferStore interface {
	ListOffers(ctx context.Context) ([]models.Offer, error)
	ListOffersByManager(ctx context.Context, managerID int64) ([]models.Offer, error)
	GetOffer(ctx context.Context, id int64) (models.Offer, error)
	CreateOffer(ctx context.Context, offer models.Offer, contractTypeIDs []int64) (models.Offer, error)
	UpdateOffer(ctx context.Context, offer models.Offer, contractTypeIDs []int64) (models.Offer, error)
	DeleteOffer(ctx context.Context, id int64) error
	ListContractTypes(ctx context.Context) ([]models.ContractType, error)
}

// ApplicationStore persists talent applications.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app models.Application) (models.Application, error)
	GetApplication(ctx context.Context, id int64) (models.Application, error)
	ListByTalent(ctx context.Context, talentID int64) ([]models.Application, error)
	ListByOffer(ctx context.Context, offerID int64) ([]models.Application, error)
	ListByManager(ctx context.Context, managerID int64) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) (models.Application, error)
	DeleteApplication(ctx context.Context, id int64) error
}

// ProfileStore persists talent and manager profiles and their sub-resources.
type ProfileStore interface {
	TalentByUser(ctx context.Context, userID int64) (models.Talent, error)
	// TalentUserID resolves a talent profile id to its account id.
	TalentUserID(ctx context.Context, talentID int64) (int64, error)
	ManagerByUser(ctx context.Context, userID int64) (models.Manager, error)
	// ManagerUserID resolves a manager profile id to its account id.
	ManagerUserID(ctx context.Context, managerID int64) (int64, error)
	UpsertCompany(ctx context.Context, managerID int64, company models.Company) (models.Company, error)

	AddSkill(ctx context.Context, talentID int64, skill models.Skill) (models.Skill, error)
	DeleteSkill(ctx context.Context, talentID, skillID int64) error
	AddDiploma(ctx context.Context, talentID int64, diploma models.Diploma) (models.Diploma, error)
	DeleteDiploma(ctx context.Context, talentID, diplomaID int64) error
	AddExperience(ctx context.Context, talentID int64, exp models.Experience) (models.Experience, error)
	DeleteExperience(ctx context.Context, talentID, experienceID int64) error

	ListCVs(ctx context.Context, talentID int64) ([]models.CV, error)
	AddCV(ctx context.Context, cv models.CV) (models.CV, error)
	DeleteCV(ctx context.Context, talentID, cvID int64) (models.CV, error)
}

// NotificationStore persists per-user notifications.
type NotificationStore interface {
	Notify(ctx context.Context, n models.Notification) error
	ListNotifications(ctx context.Context, recipientID int64) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID int64) error
}

// StatsStore answers dashboard aggregate queries.
type StatsStore interface {
	CountOffers(ctx context.Context) (int, error)
	CountApplications(ctx context.Context) (int, error)
	CountUsers(ctx context.Context, filter UserFilter) (int, error)
	OffersGroupedBy(ctx context.Context, field GroupField, limit int) ([]models.CountBy, error)
}

// GroupField names an offer column statistics can group by.
type GroupField string

const (
	GroupSector     GroupField = "sector_activity"
	GroupModality   GroupField = "modality"
	GroupStudyLevel GroupField = "study_level"
	GroupRegion     GroupField = "location"
)

// Store aggregates every persistence concern used by the handlers.
type Store interface {
	UserStore
	OfferStore
	ApplicationStore
	ProfileStore
	NotificationStore
	StatsStore
	Ping(ctx context.Context) error
	Close()
}
