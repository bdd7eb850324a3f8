package google

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type GoogleVerifier struct{}

func NewVerifier() ports.TokenVerifier {
	return &GoogleVerifier{}
}

// Verify validates the ID token against the client id and extracts the
// identity claims the login flow consumes. A missing name falls back to
// the local part of the email.
func (v *GoogleVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := idtoken.Validate(ctx, token, clientID)
	if err != nil {
		return nil, err
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("email not found in claims")
	}

	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email[:strings.IndexByte(email+"@", '@')]
	}

	verified, _ := payload.Claims["email_verified"].(bool)
	// hd is set for Google Workspace accounts only; it mirrors the
	// email domain that domain-restricted elections match against.
	hostedDomain, _ := payload.Claims["hd"].(string)

	return &ports.TokenPayload{
		Email:         email,
		Name:          name,
		EmailVerified: verified,
		HostedDomain:  hostedDomain,
	}, nil
}
