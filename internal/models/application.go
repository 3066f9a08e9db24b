package models

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationApplied  ApplicationStatus = "APPLIED"
	ApplicationReviewed ApplicationStatus = "REVIEWED"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// ParseApplicationStatus validates a status string.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	switch s := ApplicationStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case ApplicationApplied, ApplicationReviewed, ApplicationAccepted, ApplicationRejected:
		return s, nil
	}
	return "", fmt.Errorf("unknown application status %q", raw)
}

// Final reports whether no further review transitions are expected.
func (s ApplicationStatus) Final() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// Application is a talent's submission against an offer.
type Application struct {
	ID              int64             `json:"applicationId"`
	TalentID        int64             `json:"talentId"`
	OfferID         int64             `json:"offerId"`
	OfferTitle      string            `json:"offerTitle,omitempty"`
	TalentEmail     string            `json:"talentEmail,omitempty"`
	Status          ApplicationStatus `json:"status"`
	CoverLetterPath string            `json:"coverLetterPath,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CVID            *int64            `json:"cvId,omitempty"`
	AppliedAt       time.Time         `json:"applicationDate"`
	UpdatedAt       time.Time         `json:"lastUpdated"`
}
