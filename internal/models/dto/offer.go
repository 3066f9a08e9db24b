package dto

import (
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/paging"
)

// OfferRequest is the create/update payload for an offer.
type OfferRequest struct {
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Location        string                 `json:"location"`
	BasicSalary     *float64               `json:"basicSalary"`
	ContractTypeIDs []int64                `json:"contractTypeIds"`
	DatePublication string                 `json:"datePublication"`
	DateExpiration  string                 `json:"dateExpiration"`
	CompanyName     string                 `json:"companyName"`
	SectorActivity  string                 `json:"sectorActivity"`
	StudyLevel      string                 `json:"studyLevel"`
	Experience      string                 `json:"experience"`
	Languages       []models.OfferLanguage `json:"languages"`
	Skills          []string               `json:"skills"`
	Modality        string                 `json:"modality"`
	Status          string                 `json:"status"`
	FlexibleHours   bool                   `json:"flexibleHours"`
	URL             string                 `json:"offerUrl"`
}

// ApplicationRequest submits a talent application.
type ApplicationRequest struct {
	OfferID         int64  `json:"offerId"`
	CVID            *int64 `json:"cvId"`
	CoverLetterPath string `json:"coverLetterPath"`
	Notes           string `json:"notes"`
}

type SkillRequest struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type DiplomaRequest struct {
	Title       string `json:"title"`
	Institution string `json:"institution"`
	ObtainedAt  string `json:"obtainedAt"`
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// CVPathRequest registers a CV by path instead of uploading the file.
type CVPathRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// OfferPage is one page of the filtered offer list plus its pagination strip.
type OfferPage struct {
	paging.Page[models.Offer]
	Strip []paging.Link `json:"strip"`
}
