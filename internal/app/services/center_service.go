package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/upi"
)

// CenterService defines the interface for center management
type CenterService interface {
	CreateCenter(ctx context.Context, req *dto.CreateCenterRequest) (*models.Center, error)
	GetCenter(ctx context.Context, id int64) (*models.Center, error)
	ListCenters(ctx context.Context) ([]*models.Center, error)
	UpdateCenter(ctx context.Context, id int64, req *dto.UpdateCenterRequest) (*models.Center, error)
	DeleteCenter(ctx context.Context, id int64) error
}

// centerServiceImpl implements the CenterService interface
type centerServiceImpl struct {
	centerRepo *repositories.CenterRepository
}

// NewCenterService creates a new center service instance
func NewCenterService(centerRepo *repositories.CenterRepository) CenterService {
	return &centerServiceImpl{centerRepo: centerRepo}
}

// CreateCenter creates a new academy center
func (s *centerServiceImpl) CreateCenter(ctx context.Context, req *dto.CreateCenterRequest) (*models.Center, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("%w: code cannot be empty", apperrors.ErrValidationFailed)
	}
	if !upi.IsValidVPA(req.UPIVPA) {
		return nil, fmt.Errorf("%w: malformed UPI VPA", apperrors.ErrValidationFailed)
	}

	center := &models.Center{
		Name:     strings.TrimSpace(req.Name),
		Code:     code,
		Address:  req.Address,
		City:     strings.TrimSpace(req.City),
		UPIVPA:   req.UPIVPA,
		IsActive: true,
	}
	if err := s.centerRepo.Create(ctx, center); err != nil {
		return nil, err
	}

	return center, nil
}

// GetCenter retrieves a center by ID
func (s *centerServiceImpl) GetCenter(ctx context.Context, id int64) (*models.Center, error) {
	return s.centerRepo.GetByID(ctx, id)
}

// ListCenters retrieves every center
func (s *centerServiceImpl) ListCenters(ctx context.Context) ([]*models.Center, error) {
	return s.centerRepo.GetAll(ctx)
}

// UpdateCenter applies partial edits to a center
func (s *centerServiceImpl) UpdateCenter(ctx context.Context, id int64, req *dto.UpdateCenterRequest) (*models.Center, error) {
	center, err := s.centerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
		}
		center.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		center.Address = *req.Address
	}
	if req.City != nil {
		center.City = strings.TrimSpace(*req.City)
	}
	if req.UPIVPA != nil {
		if !upi.IsValidVPA(*req.UPIVPA) {
			return nil, fmt.Errorf("%w: malformed UPI VPA", apperrors.ErrValidationFailed)
		}
		center.UPIVPA = *req.UPIVPA
	}
	if req.IsActive != nil {
		center.IsActive = *req.IsActive
	}

	if err := s.centerRepo.Update(ctx, center); err != nil {
		return nil, err
	}

	return center, nil
}

// DeleteCenter removes a center with no associated data
func (s *centerServiceImpl) DeleteCenter(ctx context.Context, id int64) error {
	return s.centerRepo.Delete(ctx, id)
}
