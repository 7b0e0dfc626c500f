package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meeyqueue/case-backend/internal/apperr"
	"github.com/meeyqueue/case-backend/internal/dto"
	"github.com/meeyqueue/case-backend/internal/models"
	"github.com/meeyqueue/case-backend/internal/repository"
	"github.com/meeyqueue/case-backend/internal/validate"
)

const genericFailure = "Something went wrong, please try again later."

// IdentityService resolves and manages the people cases refer to: citizens
// (users, keyed by phone) and kiosk managers (case assignees).
type IdentityService struct {
	users    repository.UserRepository
	managers repository.KioskManagerRepository
}

func NewIdentityService(users repository.UserRepository, managers repository.KioskManagerRepository) *IdentityService {
	return &IdentityService{users: users, managers: managers}
}

// FindUserByPhone returns nil, nil when no user owns the number.
func (s *IdentityService) FindUserByPhone(ctx context.Context, countryCode, number string) (*models.User, error) {
	u, err := s.users.FindByPhone(ctx, countryCode, number)
	if err != nil {
		return nil, internal("find user by phone", err)
	}
	return u, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found", map[string]string{"uid": id.String()})
	}
	if err != nil {
		return nil, internal("get user", err)
	}
	return u, nil
}

// ResolveAssignee checks that a kiosk manager exists before a case is assigned to them.
func (s *IdentityService) ResolveAssignee(ctx context.Context, id uuid.UUID) (*models.KioskManager, error) {
	m, err := s.managers.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("volunteer does not exist.", nil)
	}
	if err != nil {
		return nil, internal("resolve assignee", err)
	}
	return m, nil
}

// SearchUser looks a user up by phone, failing with NotFound on a miss.
func (s *IdentityService) SearchUser(ctx context.Context, req dto.PhoneRequest) (*models.User, error) {
	if err := validate.Phone("phone", req.CountryCode, req.Number); err != nil {
		return nil, err
	}
	u, err := s.FindUserByPhone(ctx, req.CountryCode, req.Number)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("User not found", req)
	}
	return u, nil
}

func (s *IdentityService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	if req.Phone == nil {
		return nil, apperr.BadRequest("email, name, phone is required", nil)
	}
	if err := validate.Phone("phone", req.Phone.CountryCode, req.Phone.Number); err != nil {
		return nil, err
	}
	if err := validate.UserProfile(validate.Profile{
		NRIC:          req.NRIC,
		Name:          req.Name,
		Email:         req.Email,
		Race:          req.Race,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,
		Occupation:    req.Occupation,
		NoOfChildren:  req.NoOfChildren,
		PostalCode:    req.PostalCode,
	}); err != nil {
		return nil, err
	}

	u := &models.User{
		ID:            uuid.New(),
		NRIC:          req.NRIC,
		Name:          req.Name,
		Email:         req.Email,
		DOB:           req.DOB,
		Race:          req.Race,
		Gender:        req.Gender,
		NoOfChildren:  req.NoOfChildren,
		MaritalStatus: req.MaritalStatus,
		Occupation:    req.Occupation,
		PostalCode:    req.PostalCode,
		BlockHseNo:    req.BlockHseNo,
		FloorNo:       req.FloorNo,
		UnitNo:        req.UnitNo,
		Address:       req.Address,
		FlatType:      req.FlatType,
		Phone: &models.Phone{
			ID:          uuid.New(),
			CountryCode: req.Phone.CountryCode,
			Number:      req.Phone.Number,
		},
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email or phone already exists.", nil)
		}
		return nil, internal("create user", err)
	}

	slog.InfoContext(ctx, "user created", "user_id", u.ID.String())
	return u, nil
}

func (s *IdentityService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx, repository.MaxListLimit)
	if err != nil {
		return nil, internal("list users", err)
	}
	return users, nil
}

// DeleteUser removes the user and the phone linked to it.
func (s *IdentityService) DeleteUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.BadRequest("Something went wrong, user not deleted.", map[string]string{"uid": id.String()})
	}
	if err != nil {
		return nil, internal("delete user", err)
	}
	slog.InfoContext(ctx, "user deleted", "user_id", id.String())
	return u, nil
}

func (s *IdentityService) CreateKioskManager(ctx context.Context, req dto.CreateKioskManagerRequest) (*models.KioskManager, error) {
	if req.KioskPhone == nil {
		return nil, apperr.BadRequest("email, firstName, lastName, kioskPhone is required", nil)
	}
	if err := validate.KioskManager(req.Email, req.FirstName, req.LastName); err != nil {
		return nil, err
	}
	if err := validate.Phone("kioskPhone", req.KioskPhone.CountryCode, req.KioskPhone.Number); err != nil {
		return nil, err
	}

	m := &models.KioskManager{
		ID:        uuid.New(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		KioskPhone: &models.KioskPhone{
			ID:          uuid.New(),
			CountryCode: req.KioskPhone.CountryCode,
			Number:      req.KioskPhone.Number,
		},
	}
	if err := s.managers.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("KioskManager with this email or phone already exists.", nil)
		}
		return nil, internal("create kiosk manager", err)
	}
	return m, nil
}

func (s *IdentityService) ListKioskManagers(ctx context.Context) ([]models.KioskManager, error) {
	managers, err := s.managers.List(ctx, repository.MaxListLimit)
	if err != nil {
		return nil, internal("list kiosk managers", err)
	}
	return managers, nil
}

func (s *IdentityService) DeleteKioskManager(ctx context.Context, id uuid.UUID) (*models.KioskManager, error) {
	m, err := s.managers.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("KioskManager not found", map[string]string{"uid": id.String()})
	}
	if err != nil {
		return nil, internal("delete kiosk manager", err)
	}
	return m, nil
}

// internal hides an infrastructure failure behind a generic message. The
// handler logs the cause.
func internal(op string, err error) error {
	return apperr.Internal(genericFailure, fmt.Errorf("%s: %w", op, err))
}
