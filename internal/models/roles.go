package models

import (
	"fmt"
	"strings"
)

// AcceptanceStatus tracks administrator approval of a new account.
type AcceptanceStatus string

const (
	StatusWaiting  AcceptanceStatus = "WAITING"
	StatusAccepted AcceptanceStatus = "ACCEPTED"
	StatusRejected AcceptanceStatus = "REJECTED"
)

// ParseAcceptanceStatus validates an approval decision.
func ParseAcceptanceStatus(raw string) (AcceptanceStatus, error) {
	switch s := AcceptanceStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusWaiting, StatusAccepted, StatusRejected:
		return s, nil
	}
	return "", fmt.Errorf("unknown acceptance status %q", raw)
}
