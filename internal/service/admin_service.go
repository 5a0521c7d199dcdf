package service

import (
	"context"
	"fmt"
	"log"

	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

// AdminService handles account, role, and audit administration
type AdminService struct {
	userRepo    repository.UserRepo
	profileRepo repository.ProfileRepo
	roleRepo    repository.RoleRepo
	auditRepo   repository.AuditRepo
	auditor     *Auditor
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo repository.UserRepo,
	profileRepo repository.ProfileRepo,
	roleRepo repository.RoleRepo,
	auditRepo repository.AuditRepo,
	auditor *Auditor,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
		auditRepo:   auditRepo,
		auditor:     auditor,
	}
}

// ListUsers returns every profile joined with role and email, newest first
func (s *AdminService) ListUsers(ctx context.Context) ([]model.UserAccount, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	accounts := make([]model.UserAccount, len(profiles))
	for i, profile := range profiles {
		account := model.UserAccount{Profile: *profile}
		email, err := s.userRepo.EmailByID(ctx, profile.ID)
		if err != nil {
			log.Printf("resolve email for %s: %v", profile.ID, err)
		}
		account.Email = email
		role, err := s.roleRepo.Get(ctx, profile.ID)
		if err != nil {
			return nil, fmt.Errorf("load role for %s: %w", profile.ID, err)
		}
		if role != nil {
			account.Role = role.Role
		}
		accounts[i] = account
	}
	return accounts, nil
}

// UpdateUser applies a profile patch and sets or clears the user's role.
// An empty role revokes the existing role record; the profile stays.
func (s *AdminService) UpdateUser(ctx context.Context, actorID, userID string, patch repository.ProfilePatch, role model.Role) error {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return ErrNotFound
	}
	if err := s.profileRepo.Update(ctx, userID, patch); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	s.auditor.Record(ctx, actorID, model.AuditProfileUpdated, "profiles", userID)

	if role == "" {
		return s.RevokeRole(ctx, actorID, userID)
	}
	return s.AssignRole(ctx, actorID, userID, role)
}

// RoleRecord is one role row joined with account details for admin views
type RoleRecord struct {
	UserID      string     `json:"userId"`
	Role        model.Role `json:"role"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

// ListRoles returns every role record with its account details
func (s *AdminService) ListRoles(ctx context.Context) ([]RoleRecord, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	records := make([]RoleRecord, len(roles))
	for i, role := range roles {
		record := RoleRecord{UserID: role.UserID, Role: role.Role}
		email, err := s.userRepo.EmailByID(ctx, role.UserID)
		if err != nil {
			log.Printf("resolve email for %s: %v", role.UserID, err)
		}
		record.Email = email
		if profile, err := s.profileRepo.GetByID(ctx, role.UserID); err == nil && profile != nil {
			record.DisplayName = profile.DisplayName
		}
		records[i] = record
	}
	return records, nil
}

// AssignRole sets the user's role, replacing any existing record rather
// than erroring on duplicates.
func (s *AdminService) AssignRole(ctx context.Context, actorID, userID string, role model.Role) error {
	if !role.Valid() {
		return NewValidationError(fmt.Sprintf("unknown role %q", role))
	}
	if err := s.roleRepo.Upsert(ctx, userID, role); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	s.auditor.Record(ctx, actorID, model.AuditRoleAssigned, "user_roles", userID)
	return nil
}

// RevokeRole deletes the user's role record, leaving the profile intact
func (s *AdminService) RevokeRole(ctx context.Context, actorID, userID string) error {
	if err := s.roleRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	s.auditor.Record(ctx, actorID, model.AuditRoleRevoked, "user_roles", userID)
	return nil
}

// AuditLatest returns the most recent audit entries
func (s *AdminService) AuditLatest(ctx context.Context) ([]*model.AuditEntry, error) {
	return s.auditRepo.Latest(ctx, 100)
}

// AuditByActor returns the most recent entries for one actor
func (s *AdminService) AuditByActor(ctx context.Context, actorID string) ([]*model.AuditEntry, error) {
	return s.auditRepo.ByActor(ctx, actorID, 50)
}

// AuditByTable returns the most recent entries whose action carries the
// table's prefix.
func (s *AdminService) AuditByTable(ctx context.Context, tableName string) ([]*model.AuditEntry, error) {
	return s.auditRepo.ByTablePrefix(ctx, tableName, 50)
}
