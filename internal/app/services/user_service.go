package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/auth"
)

// UserService defines the interface for staff account management
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, filter dto.UserFilter, page, pageSize int) ([]*models.User, int64, error)
	UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo   *repositories.UserRepository
	centerRepo *repositories.CenterRepository
	tokenRepo  *repositories.TokenRepository
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo *repositories.UserRepository,
	centerRepo *repositories.CenterRepository,
	tokenRepo *repositories.TokenRepository,
) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		centerRepo: centerRepo,
		tokenRepo:  tokenRepo,
	}
}

// CreateUser registers a staff account
func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	role := models.RoleType(req.RoleType)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, req.RoleType)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidationFailed)
	}
	if req.CenterID != nil {
		if _, err := s.centerRepo.GetByID(ctx, *req.CenterID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     strings.TrimSpace(strings.ToLower(req.Email)),
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
		RoleType:  role,
		CenterID:  req.CenterID,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a staff account by ID
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers retrieves staff accounts matching a filter
func (s *userServiceImpl) ListUsers(ctx context.Context, filter dto.UserFilter, page, pageSize int) ([]*models.User, int64, error) {
	return s.userRepo.GetAll(ctx, filter, page, pageSize)
}

// UpdateUser applies partial edits to a staff account. Disabling an account
// also revokes its refresh tokens.
func (s *userServiceImpl) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.RoleType != nil {
		role := models.RoleType(*req.RoleType)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, *req.RoleType)
		}
		user.RoleType = role
	}
	if req.CenterID != nil {
		if _, err := s.centerRepo.GetByID(ctx, *req.CenterID); err != nil {
			return nil, err
		}
		user.CenterID = req.CenterID
	}

	deactivated := false
	if req.IsActive != nil {
		deactivated = user.IsActive && !*req.IsActive
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if deactivated {
		_ = s.tokenRepo.RevokeAllUserTokens(ctx, id)
	}

	return user, nil
}
