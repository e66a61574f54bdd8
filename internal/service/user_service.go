package service

import (
	"context"
	"errors"
	"strings"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
	ErrRoleNotFound   = errors.New("role not found")
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.UserResponse, error)
	SetUserState(ctx context.Context, userID uuid.UUID, active bool, updaterID string) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.UserResponse, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) (*UserListResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	ListPrivileges(ctx context.Context) ([]model.Privilege, error)
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

// UpdateUserRequest only touches the fields present in the payload.
type UpdateUserRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName    *string `json:"full_name" validate:"omitempty,min=1"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
	RoleID      *uint   `json:"role_id"`
	IsActive    *bool   `json:"is_active"`
}

type UserListResponse struct {
	Count int                  `json:"count"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Users []model.UserResponse `json:"users"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.UserResponse, error) {
	// 1. Validate request
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	// 2. Check username and email
	if err := s.ensureIdentityFree(ctx, req.Username, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	// 3. Validate role exists
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, ErrRoleNotFound
	}

	user := &model.User{
		Username:    req.Username,
		Email:       strings.ToLower(req.Email),
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &role.ID,
		IsActive:    true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// 4. Auto-assign privileges based on role
	user.Privileges = role.Privileges

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	return s.GetUserByID(ctx, user.ID)
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.UserResponse, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	changes := map[string]interface{}{}
	username, email := "", ""
	if req.Username != nil && *req.Username != user.Username {
		username = *req.Username
		changes["username"] = username
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		email = strings.ToLower(*req.Email)
		changes["email"] = email
	}
	if err := s.ensureIdentityFree(ctx, username, email, userID); err != nil {
		return nil, err
	}
	if req.FullName != nil {
		changes["full_name"] = *req.FullName
	}
	if req.PhoneNumber != nil {
		changes["phone_number"] = *req.PhoneNumber
	}
	endSession := false
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
		endSession = !*req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
		changes["password"] = user.Password
		endSession = true
	}

	var newRole *model.Role
	if req.RoleID != nil && (user.RoleID == nil || *user.RoleID != *req.RoleID) {
		newRole, err = s.roleRepo.FindByID(ctx, *req.RoleID)
		if err != nil {
			return nil, ErrRoleNotFound
		}
		changes["role_id"] = newRole.ID
	}

	if len(changes) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	changes["updated_by"] = updaterID

	if err := s.userRepo.Update(ctx, userID, changes); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	// Deactivation and a new password end the current session.
	if endSession {
		if err := s.userRepo.UpdateTokenVersion(ctx, userID, uuid.NewString()); err != nil {
			return nil, err
		}
	}

	// A role change resets privileges to the role defaults.
	if newRole != nil {
		if err := s.userRepo.UpdatePrivileges(ctx, userID, newRole.Privileges); err != nil {
			return nil, err
		}
	}

	return s.GetUserByID(ctx, userID)
}

func (s *userService) ensureIdentityFree(ctx context.Context, username, email string, self uuid.UUID) error {
	if username != "" {
		if existing, err := s.userRepo.FindByUsernameOrEmail(ctx, username); err == nil && existing.ID != self && existing.Username == username {
			return ErrUsernameExists
		}
	}
	if email != "" {
		if existing, err := s.userRepo.FindByUsernameOrEmail(ctx, email); err == nil && existing.ID != self && strings.EqualFold(existing.Email, email) {
			return ErrEmailExists
		}
	}
	return nil
}

func (s *userService) SetUserState(ctx context.Context, userID uuid.UUID, active bool, updaterID string) (*model.UserResponse, error) {
	err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"is_active":  active,
		"updated_by": updaterID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// Deactivation ends the current session.
	if !active {
		if err := s.userRepo.UpdateTokenVersion(ctx, userID, uuid.NewString()); err != nil {
			return nil, err
		}
	}
	return s.GetUserByID(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.UserResponse, error) {
	// 1. Find user
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}

	// 2. Get privileges
	privileges, err := s.privilegeRepo.FindByCodes(ctx, privilegeCodes)
	if err != nil {
		return nil, errors.New("failed to find privileges")
	}

	// 3. Update privileges
	if err := s.userRepo.UpdatePrivileges(ctx, userID, privileges); err != nil {
		return nil, err
	}

	// 4. Update audit field
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"updated_by": updaterID}); err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter) (*UserListResponse, error) {
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	page, limit := repository.NormalizePage(filter.Page, filter.Limit)
	return &UserListResponse{
		Count: len(responses),
		Total: total,
		Page:  page,
		Limit: limit,
		Users: responses,
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.FindAll(ctx)
}

func (s *userService) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	return s.privilegeRepo.FindAll(ctx)
}
