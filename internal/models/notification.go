package models

import "time"

// NotificationType classifies notifications.
type NotificationType string

const (
	NotifyApplicationStatusUpdate NotificationType = "APPLICATION_STATUS_UPDATE"
	NotifyNewOfferCreated         NotificationType = "NEW_OFFER_CREATED"
	NotifyUpdatedOffer            NotificationType = "UPDATED_OFFER"
	NotifyApplicationSubmitted    NotificationType = "APPLICATION_SUBMITTED"
	NotifyNewCandidate            NotificationType = "NEW_CANDIDATE_APPLICATION"
	NotifyNewUserRegistered       NotificationType = "NEW_USER_REGISTERED"
	NotifyUserUpdated             NotificationType = "UPDATE_USER_INFORMATIONS"
)

type Notification struct {
	ID          int64            `json:"id"`
	RecipientID int64            `json:"recipientId"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
}
