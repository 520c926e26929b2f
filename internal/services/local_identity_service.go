package services

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/donteatkebab/backend/internal/models"
	"github.com/donteatkebab/backend/internal/storage"
)

type localUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// LocalIdentityService is a development stand-in for the hosted identity
// provider: bcrypt-hashed accounts in a JSON file, HS256 access and refresh
// tokens. Selected with AUTH_BACKEND=local.
type LocalIdentityService struct {
	mu         sync.RWMutex
	store      *storage.JSONStore
	users      map[string]*localUser // keyed by email
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewLocalIdentityService(dataDir, secret string, accessTTL, refreshTTL time.Duration) (*LocalIdentityService, error) {
	js, err := storage.NewJSONStore(dataDir, "users.json")
	if err != nil {
		return nil, err
	}

	s := &LocalIdentityService{
		store:      js,
		users:      make(map[string]*localUser),
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
	if err := js.Load(&s.users); err != nil {
		return nil, err
	}
	if s.users == nil {
		s.users = make(map[string]*localUser)
	}
	return s, nil
}

func (s *LocalIdentityService) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &localUser{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	s.users[email] = user

	if err := s.store.Save(s.users); err != nil {
		delete(s.users, email)
		return nil, err
	}
	return &models.Identity{ID: user.ID, Email: user.Email}, nil
}

func (s *LocalIdentityService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	s.mu.RLock()
	user, exists := s.users[email]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.signToken(user, "access", s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, "refresh", s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &models.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         models.Identity{ID: user.ID, Email: user.Email},
	}, nil
}

func (s *LocalIdentityService) VerifyToken(ctx context.Context, tokenString string) (*models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != "access" {
		return nil, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &models.Identity{ID: userID, Email: email}, nil
}

func (s *LocalIdentityService) signToken(user *localUser, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"typ":     typ,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
