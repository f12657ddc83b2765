package api

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

const (
	staffGoogleAudience = "472091823514-9hqd02c5nv1b8jk3f0tghmev2lrk81u0.apps.googleusercontent.com"
	staffHostedDomain   = "aaasportscamp.com"
)

type IDTokenValidator interface {
	Validate(ctx context.Context, token string, audience string) (*idtoken.Payload, error)
}

var _ IDTokenValidator = GoogleIDTokenValidator{}

type GoogleIDTokenValidator struct{}

func (GoogleIDTokenValidator) Validate(ctx context.Context, token string, audience string) (*idtoken.Payload, error) {
	return idtoken.Validate(ctx, token, audience)
}

// validateStaffToken checks the bearer token is a valid Google ID token for a
// camp staff account. Staff accounts are identified by the hosted domain
// claim on the camp's workspace.
func (a *API) validateStaffToken(ctx context.Context, authorizationHeader string) (*idtoken.Payload, error) {
	token, ok := strings.CutPrefix(authorizationHeader, "Bearer ")
	if !ok {
		return nil, fmt.Errorf("missing bearer token")
	}

	jwt, err := a.staffValidator.Validate(ctx, token, staffGoogleAudience)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	org, ok := jwt.Claims["hd"]
	if !ok {
		return nil, fmt.Errorf("hd claim not in JWT")
	}
	if org != staffHostedDomain {
		return nil, fmt.Errorf("user is not camp staff")
	}

	return jwt, nil
}
