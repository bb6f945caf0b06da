package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

type userRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.User, error)
	FindByID(ctx context.Context, schoolID, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, schoolID, id string) error
}

// CreateUserRequest represents payload for adding staff to a school.
type CreateUserRequest struct {
	Email           string          `json:"email" validate:"required,email"`
	FullName        string          `json:"full_name" validate:"required"`
	Role            models.UserRole `json:"role" validate:"required,oneof=ADMIN TEACHER"`
	Password        string          `json:"password" validate:"required,min=6"`
	AssignedClasses []string        `json:"assigned_classes" validate:"dive,required"`
}

// UpdateUserRequest payload for updating staff. An empty password keeps the current one.
type UpdateUserRequest struct {
	FullName        string          `json:"full_name" validate:"required"`
	Role            models.UserRole `json:"role" validate:"required,oneof=ADMIN TEACHER"`
	AssignedClasses []string        `json:"assigned_classes" validate:"dive,required"`
	Active          *bool           `json:"active"`
	Password        string          `json:"password" validate:"omitempty,min=6"`
}

// UserService manages the staff accounts of a school.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns the staff of the school.
func (s *UserService) List(ctx context.Context, schoolID string) ([]models.User, error) {
	users, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Create adds a new staff member.
func (s *UserService) Create(ctx context.Context, schoolID string, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create user payload")
	}
	email := normalizeEmail(req.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		SchoolID:        schoolID,
		Email:           email,
		FullName:        strings.TrimSpace(req.FullName),
		Role:            req.Role,
		AssignedClasses: normalizeClasses(req.AssignedClasses),
		Active:          true,
		PasswordHash:    string(passwordHash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	s.logger.Info("user created", zap.String("school_id", schoolID), zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update modifies the staff member's profile, role, classes or password.
func (s *UserService) Update(ctx context.Context, schoolID, id string, req UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	user, err := s.get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.Role = req.Role
	user.AssignedClasses = normalizeClasses(req.AssignedClasses)
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	return user, nil
}

// Delete removes a staff member. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, schoolID, actorID, id string) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrValidation, "you cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, schoolID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logger.Info("user deleted", zap.String("school_id", schoolID), zap.String("user_id", id))
	return nil
}

func (s *UserService) get(ctx context.Context, schoolID, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// normalizeClasses trims names and drops blanks and duplicates, keeping first occurrence order.
func normalizeClasses(classes []string) []string {
	out := make([]string, 0, len(classes))
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
