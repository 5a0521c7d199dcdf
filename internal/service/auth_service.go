package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

// AuthService handles account registration, login, and session tokens
type AuthService struct {
	userRepo    repository.UserRepo
	profileRepo repository.ProfileRepo
	roleRepo    repository.RoleRepo
	auditor     *Auditor
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepo,
	profileRepo repository.ProfileRepo,
	roleRepo repository.RoleRepo,
	auditor *Auditor,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
		auditor:     auditor,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    7 * 24 * time.Hour,
	}
}

// Register creates an account with its profile. New accounts start with no
// system role; roles are assigned by an admin.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewValidationError("a valid email is required")
	}
	if len(req.Password) < 6 {
		return nil, NewValidationError("password must be at least 6 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	profile := &model.Profile{
		ID:          user.ID,
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.auditor.Record(ctx, user.ID, model.AuditUserRegistered, "users", user.ID)
	return s.authResponse(user)
}

// Login validates credentials and returns a session token
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.auditor.Record(ctx, user.ID, model.AuditUserLogin, "users", user.ID)
	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *model.User) (*model.AuthResponse, error) {
	claims := &model.SessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: signed, UserID: user.ID, Email: user.Email}, nil
}

// ValidateToken validates a session JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Me returns the caller's profile joined with role and email
func (s *AuthService) Me(ctx context.Context, userID string) (*model.UserAccount, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	account := &model.UserAccount{Profile: *profile}
	if email, err := s.userRepo.EmailByID(ctx, userID); err == nil {
		account.Email = email
	}
	if role, err := s.roleRepo.Get(ctx, userID); err == nil && role != nil {
		account.Role = role.Role
	}
	return account, nil
}

// UpdateProfile applies a partial profile update for the caller
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch repository.ProfilePatch) error {
	if err := s.profileRepo.Update(ctx, userID, patch); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	s.auditor.Record(ctx, userID, model.AuditProfileUpdated, "profiles", userID)
	return nil
}

// RoleOf returns the user's system role, empty when none is assigned
func (s *AuthService) RoleOf(ctx context.Context, userID string) (model.Role, error) {
	role, err := s.roleRepo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if role == nil {
		return "", nil
	}
	return role.Role, nil
}
