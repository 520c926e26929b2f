package services

import (
	"context"
	"errors"
	"io"

	"github.com/donteatkebab/backend/internal/models"
)

var (
	ErrProfileCreateFailed = errors.New("failed to create profile")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

// IdentityProvider abstracts the external identity service: account
// creation, password sign-in, and bearer-token resolution.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	VerifyToken(ctx context.Context, token string) (*models.Identity, error)
}

// ProfileStore persists profile rows keyed by user ID.
type ProfileStore interface {
	// GetOrCreate returns the user's profile, creating it with defaults
	// derived from email (username = local part) when missing.
	GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error)
	// Upsert applies the non-nil fields of req and stamps updated_at.
	Upsert(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error)
	SetAvatarURL(ctx context.Context, userID, url string) error
	ListAll(ctx context.Context) ([]models.Profile, error)
}

// WeightStore persists weight log rows, unique per (user_id, log_date).
type WeightStore interface {
	// Upsert inserts or overwrites the entry for (userID, date) and
	// returns the stored row.
	Upsert(ctx context.Context, userID string, date models.Date, weight float64) (*models.WeightLog, error)
	// ListByUser returns the user's entries newest-first, optionally
	// bounded by inclusive start/end dates.
	ListByUser(ctx context.Context, userID string, start, end *models.Date) ([]models.WeightLog, error)
	ListByDate(ctx context.Context, date models.Date) ([]models.WeightLog, error)
}

// AvatarStore holds avatar objects under deterministic keys. Upload
// overwrites any existing object for the key and returns a public URL.
type AvatarStore interface {
	Upload(ctx context.Context, key, contentType string, data io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}
