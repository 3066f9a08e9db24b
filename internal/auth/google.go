package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

const googleIssuer = "https://accounts.google.com"

// GoogleIdentity is the subset of Google ID-token claims used for sign-in.
type GoogleIdentity struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// IdentityVerifier turns a third-party ID token into a verified identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (GoogleIdentity, error)
}

// GoogleVerifier validates Google ID tokens against Google's published keys.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier discovers Google's OIDC configuration for clientID.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, errors.New("google client id is required")
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover google provider: %w", err)
	}
	return &GoogleVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// Verify checks signature, audience and expiry, then decodes the identity claims.
func (g *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (GoogleIdentity, error) {
	token, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var id GoogleIdentity
	if err := token.Claims(&id); err != nil {
		return GoogleIdentity{}, fmt.Errorf("decode google claims: %w", err)
	}
	if id.Email == "" || !id.EmailVerified {
		return GoogleIdentity{}, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}
	return id, nil
}
