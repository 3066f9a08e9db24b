package models

import (
	"fmt"
	"strings"
	"time"
)

// Modality is where the work happens.
type Modality string

const (
	ModalityOnSite Modality = "OnSite"
	ModalityRemote Modality = "Remote"
	ModalityHybrid Modality = "Hybrid"
)

// ParseModality accepts any casing of the known modalities. Empty defaults to OnSite.
func ParseModality(raw string) (Modality, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ModalityOnSite, nil
	}
	for _, m := range []Modality{ModalityOnSite, ModalityRemote, ModalityHybrid} {
		if strings.EqualFold(string(m), trimmed) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown modality %q", raw)
}

// OfferStatus is the publication state of an offer.
type OfferStatus string

const (
	OfferOpen      OfferStatus = "OPEN"
	OfferClosed    OfferStatus = "CLOSED"
	OfferPending   OfferStatus = "PENDING"
	OfferExpired   OfferStatus = "EXPIRED"
	OfferCancelled OfferStatus = "CANCELLED"
	OfferDraft     OfferStatus = "DRAFT"
	OfferArchived  OfferStatus = "ARCHIVED"
)

// ParseOfferStatus validates a status. Empty defaults to OPEN.
func ParseOfferStatus(raw string) (OfferStatus, error) {
	s := OfferStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case "":
		return OfferOpen, nil
	case OfferOpen, OfferClosed, OfferPending, OfferExpired, OfferCancelled, OfferDraft, OfferArchived:
		return s, nil
	}
	return "", fmt.Errorf("unknown offer status %q", raw)
}

// ContractType is a lookup value such as CDI, CDD or internship.
type ContractType struct {
	ID   int64  `json:"id"`
	Name string `json:"typeName"`
}

// OfferLanguage is a language requirement on an offer.
type OfferLanguage struct {
	Language string `json:"language"`
	Level    string `json:"level,omitempty"`
}

// Offer is a job posting.
type Offer struct {
	ID              int64           `json:"offerId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Location        string          `json:"location"`
	BasicSalary     *float64        `json:"basicSalary,omitempty"`
	ContractTypes   []ContractType  `json:"contractTypes"`
	DatePublication *time.Time      `json:"datePublication,omitempty"`
	DateExpiration  *time.Time      `json:"dateExpiration,omitempty"`
	CompanyName     string          `json:"companyName"`
	SectorActivity  string          `json:"sectorActivity"`
	StudyLevel      string          `json:"studyLevel,omitempty"`
	Experience      string          `json:"experience,omitempty"`
	Languages       []OfferLanguage `json:"languages"`
	Skills          []string        `json:"skills"`
	Modality        Modality        `json:"modality"`
	Status          OfferStatus     `json:"status"`
	FlexibleHours   bool            `json:"flexibleHours"`
	URL             string          `json:"offerUrl,omitempty"`
	ManagerID       *int64          `json:"managerId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OwnedBy reports whether the offer was published by the manager.
func (o Offer) OwnedBy(managerID int64) bool {
	return o.ManagerID != nil && *o.ManagerID == managerID
}
