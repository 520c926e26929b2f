package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/donteatkebab/backend/internal/models"
)

// FirebaseIdentityService is the production identity provider. Accounts are
// created through the Admin SDK; password sign-in goes through the Identity
// Toolkit REST surface (the Admin SDK cannot exchange passwords for tokens),
// and bearer tokens are verified server-side.
type FirebaseIdentityService struct {
	auth    *fbauth.Client
	toolkit *identitytoolkit.RelyingpartyService
}

func NewFirebaseIdentityService(ctx context.Context, app *firebase.App, apiKey string) (*FirebaseIdentityService, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth client: %w", err)
	}

	// The Identity Toolkit endpoints are API-key authenticated, like the
	// client SDKs that normally call them.
	gis, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit client: %w", err)
	}

	return &FirebaseIdentityService{
		auth:    authClient,
		toolkit: gis.Relyingparty,
	}, nil
}

func (s *FirebaseIdentityService) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	user := (&fbauth.UserToCreate{}).Email(email).Password(password)
	rec, err := s.auth.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return &models.Identity{ID: rec.UID, Email: rec.Email}, nil
}

func (s *FirebaseIdentityService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.toolkit.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return &models.Session{
		AccessToken:  resp.IdToken,
		RefreshToken: resp.RefreshToken,
		User:         models.Identity{ID: resp.LocalId, Email: resp.Email},
	}, nil
}

func (s *FirebaseIdentityService) VerifyToken(ctx context.Context, token string) (*models.Identity, error) {
	tok, err := s.auth.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := tok.Claims["email"].(string)
	return &models.Identity{ID: tok.UID, Email: email}, nil
}
