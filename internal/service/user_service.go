package service

import (
	"errors"

	"go-pos-engine/internal/model"
	"go-pos-engine/internal/repository"
	"go-pos-engine/pkg/validator"

	"github.com/google/uuid"
)

type UserService interface {
	CreateUser(req *CreateUserRequest) (*model.User, error)
	UpdateUser(id uuid.UUID, req *UpdateUserRequest) (*model.User, error)
	GetUsers() ([]model.User, error)
	GetUser(id uuid.UUID) (*model.User, error)
	DeleteUser(id uuid.UUID) error
	UpdateUserPrivileges(id uuid.UUID, codes []string) error
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	RoleCode string `json:"role_code"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	IsActive *bool  `json:"is_active"`
	Password string `json:"password"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(uRepo repository.UserRepository, pRepo repository.PrivilegeRepository, rRepo repository.RoleRepository) UserService {
	return &userService{userRepo: uRepo, privilegeRepo: pRepo, roleRepo: rRepo}
}

func (s *userService) CreateUser(req *CreateUserRequest) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validator.FirstError(errs)
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, errors.New("email already registered")
	}

	user := &model.User{
		Email:    req.Email,
		FullName: req.FullName,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if req.RoleCode != "" {
		role, err := s.roleRepo.FindByCode(req.RoleCode)
		if err != nil {
			return nil, errors.New("unknown role code")
		}
		user.RoleID = &role.ID
		user.Privileges = role.Privileges
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(id uuid.UUID, req *UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, errors.New("password must be at least 6 characters")
		}
		if err := user.SetPassword(req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) GetUser(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) DeleteUser(id uuid.UUID) error {
	return s.userRepo.Delete(id)
}

func (s *userService) UpdateUserPrivileges(id uuid.UUID, codes []string) error {
	privileges, err := s.privilegeRepo.FindByCodes(codes)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePrivileges(id, privileges)
}
