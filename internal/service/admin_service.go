package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/campusbridge/internal/dto"
	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/internal/repository"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminService is the official-only user management surface.
type AdminService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*model.User, error)
	GetAllUsers(ctx context.Context, filter dto.UserFilter) ([]model.User, *dto.PaginationMeta, error)
	// UpdateUser cannot change the user's role; it is fixed at creation.
	UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	repo repository.UserRepository
}

func NewAdminService(repo repository.UserRepository) AdminService {
	return &adminService{repo: repo}
}

func (s *adminService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperror.ErrInvalidInput, req.Role)
	}

	// Branch is meaningful for teachers and students, position for
	// officials.
	if role == model.RoleOfficial && req.Branch != nil {
		return nil, fmt.Errorf("%w: officials do not belong to a branch", apperror.ErrInvalidInput)
	}
	if role != model.RoleOfficial && (req.Branch == nil || *req.Branch == "") {
		return nil, fmt.Errorf("%w: branch is required for %s accounts", apperror.ErrInvalidInput, role)
	}
	if role != model.RoleOfficial && req.Position != nil {
		return nil, fmt.Errorf("%w: position is only valid for officials", apperror.ErrInvalidInput)
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperror.ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Position:     req.Position,
		Branch:       req.Branch,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) GetAllUsers(ctx context.Context, filter dto.UserFilter) ([]model.User, *dto.PaginationMeta, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.repo.FindAll(ctx, filter.Role, filter.Branch, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	meta := &dto.PaginationMeta{
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		TotalItems:  total,
		Limit:       limit,
	}
	return users, meta, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Position != nil {
		if user.Role != model.RoleOfficial {
			return nil, fmt.Errorf("%w: position is only valid for officials", apperror.ErrInvalidInput)
		}
		user.Position = req.Position
	}
	if req.Branch != nil {
		if user.Role == model.RoleOfficial {
			return nil, fmt.Errorf("%w: officials do not belong to a branch", apperror.ErrInvalidInput)
		}
		user.Branch = req.Branch
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
