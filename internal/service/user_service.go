package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/cache"
	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
	"github.com/tresmontes-cajas/internal/rut"
)

// CreateUserInput admin-provided account data.
type CreateUserInput struct {
	Username string
	Password string
	Role     string
	PlantID  *uint
	RUT      string
	FullName string
	Email    string
}

// UpdateUserInput partial account update; nil fields are left untouched.
type UpdateUserInput struct {
	Role     *string
	PlantID  *uint
	RUT      *string
	FullName *string
	Email    *string
	IsActive *bool
}

// UserService admin account management.
type UserService struct {
	userRepo  repository.UserRepository
	plantRepo repository.PlantRepository
	audit     *AuditService
	policy    config.PasswordPolicyConfig
}

// NewUserService creates the service.
func NewUserService(userRepo repository.UserRepository, plantRepo repository.PlantRepository, audit *AuditService, policy config.PasswordPolicyConfig) *UserService {
	return &UserService{userRepo: userRepo, plantRepo: plantRepo, audit: audit, policy: policy}
}

func validRole(role string) bool {
	switch role {
	case constants.RoleAdmin, constants.RoleGuard, constants.RoleWorker:
		return true
	}
	return false
}

func (s *UserService) canonicalRUT(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	formatted, err := rut.Format(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRUT, err)
	}
	return &formatted, nil
}

func (s *UserService) checkPlant(role string, plantID *uint) error {
	if plantID == nil || *plantID == 0 {
		if role == constants.RoleGuard {
			return ErrPlantRequired
		}
		return nil
	}
	plant, err := s.plantRepo.GetByID(*plantID)
	if err != nil {
		return err
	}
	if plant == nil {
		return ErrPlantNotFound
	}
	return nil
}

func (s *UserService) checkRUTFree(canonical *string, selfID uint) error {
	if canonical == nil {
		return nil
	}
	existing, err := s.userRepo.GetByRUT(*canonical)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrRUTExists
	}
	return nil
}

// Create adds an account.
func (s *UserService) Create(actor Actor, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrInvalidInput
	}
	role := strings.TrimSpace(input.Role)
	if !validRole(role) {
		return nil, ErrInvalidRole
	}
	if err := s.checkPlant(role, input.PlantID); err != nil {
		return nil, err
	}
	canonical, err := s.canonicalRUT(input.RUT)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.policy, input.Password, passwordOwner{Username: username, RUT: input.RUT}); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}
	if err := s.checkRUTFree(canonical, 0); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		PlantID:      normalizePlantID(input.PlantID),
		RUT:          canonical,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		if isUniqueViolation(err, "username") {
			return nil, ErrUsernameExists
		}
		if isUniqueViolation(err, "rut") {
			return nil, ErrRUTExists
		}
		return nil, err
	}
	s.audit.recordQuietly(AuditRecordInput{
		Actor:        actor,
		Action:       constants.AuditActionUserCreate,
		TargetUserID: &user.ID,
		Detail:       models.JSON{"username": user.Username, "role": user.Role},
	})
	return user, nil
}

// Update changes account fields. Role, plant or active changes revoke existing tokens.
func (s *UserService) Update(ctx context.Context, actor Actor, id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	revoke := false
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if !validRole(role) {
			return nil, ErrInvalidRole
		}
		if role != user.Role {
			user.Role = role
			revoke = true
		}
	}
	if input.PlantID != nil {
		next := normalizePlantID(input.PlantID)
		if !samePlant(user.PlantID, next) {
			user.PlantID = next
			revoke = true
		}
	}
	if err := s.checkPlant(user.Role, user.PlantID); err != nil {
		return nil, err
	}
	if input.RUT != nil {
		canonical, err := s.canonicalRUT(*input.RUT)
		if err != nil {
			return nil, err
		}
		if err := s.checkRUTFree(canonical, user.ID); err != nil {
			return nil, err
		}
		user.RUT = canonical
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.IsActive != nil && *input.IsActive != user.IsActive {
		user.IsActive = *input.IsActive
		revoke = true
	}
	if revoke {
		revokeTokens(user, time.Now())
	}
	if err := s.userRepo.Update(user); err != nil {
		if isUniqueViolation(err, "rut") {
			return nil, ErrRUTExists
		}
		return nil, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	s.audit.recordQuietly(AuditRecordInput{
		Actor:        actor,
		Action:       constants.AuditActionUserUpdate,
		TargetUserID: &user.ID,
		Detail:       models.JSON{"role": user.Role, "is_active": user.IsActive},
	})
	return user, nil
}

// Deactivate disables an account and revokes its tokens.
func (s *UserService) Deactivate(ctx context.Context, actor Actor, id uint) error {
	if actor.UserID == id {
		return ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	user.IsActive = false
	revokeTokens(user, time.Now())
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(ctx, user.ID)
	s.audit.recordQuietly(AuditRecordInput{
		Actor:        actor,
		Action:       constants.AuditActionUserDeactivate,
		TargetUserID: &user.ID,
	})
	return nil
}

// ResetPassword sets a new password chosen by an admin.
func (s *UserService) ResetPassword(ctx context.Context, actor Actor, id uint, password string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := validatePassword(s.policy, password, ownerOf(user)); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	revokeTokens(user, time.Now())
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	s.audit.recordQuietly(AuditRecordInput{
		Actor:        actor,
		Action:       constants.AuditActionPasswordReset,
		TargetUserID: &user.ID,
	})
	return nil
}

// Get returns one account.
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// List pages through accounts.
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// EnsureUser creates the account when the username is free. Used by seeding.
func (s *UserService) EnsureUser(input CreateUserInput) (*models.User, bool, error) {
	existing, err := s.userRepo.GetByUsername(input.Username)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	user, err := s.Create(Actor{}, input)
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			existing, getErr := s.userRepo.GetByUsername(input.Username)
			return existing, false, getErr
		}
		return nil, false, err
	}
	return user, true, nil
}

func revokeTokens(user *models.User, at time.Time) {
	user.TokenVersion++
	user.TokenInvalidBefore = &at
}

func normalizePlantID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func samePlant(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
