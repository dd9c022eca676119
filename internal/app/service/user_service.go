package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/common/security"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
)

// UpdateUserRequest carries partial account updates. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type UpdateLecturerProfileRequest struct {
	Department    *string `json:"department,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Qualification *string `json:"qualification,omitempty"`
}

type UpdateStudentProfileRequest struct {
	EnrollmentNumber *string `json:"enrollment_number,omitempty"`
	Semester         *int    `json:"semester,omitempty" validate:"omitempty,min=1"`
	Program          *string `json:"program,omitempty"`
}

// AdminCreateUserRequest mirrors SignupRequest but additionally permits the
// admin role.
type AdminCreateUserRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	Username  string     `json:"username" validate:"required,min=3,max=50"`
	Password  string     `json:"password" validate:"required,min=8"`
	Role      model.Role `json:"role" validate:"required,oneof=admin lecturer student"`
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`

	Department    string `json:"department,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Qualification string `json:"qualification,omitempty"`

	EnrollmentNumber string `json:"enrollment_number,omitempty"`
	Semester         int    `json:"semester,omitempty"`
	Program          string `json:"program,omitempty"`
}

type UserService struct {
	users repository.UserRepository
	guard *authz.Guard
	tx    repository.Transactor
}

func NewUserService(users repository.UserRepository, guard *authz.Guard, tx repository.Transactor) *UserService {
	return &UserService{users: users, guard: guard, tx: tx}
}

// Me returns the acting principal's account with its role profile attached.
func (s *UserService) Me(ctx context.Context, p authz.Principal) (*model.User, error) {
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	s.attachProfile(ctx, user)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, p authz.Principal, id string) (*model.User, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachProfile(ctx, user)
	return user, nil
}

// Update applies a partial account update. The account owner may update
// themself; lecturers may update any account.
func (s *UserService) Update(ctx context.Context, p authz.Principal, id string, req UpdateUserRequest) (*model.User, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionUpdateUser, authz.Target{Kind: authz.TargetUser, ID: id}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		hashed, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.HashedPassword = hashed
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.attachProfile(ctx, user)
	return user, nil
}

// Delete removes an account and its profiles. Lecturer-only.
func (s *UserService) Delete(ctx context.Context, p authz.Principal, id string) error {
	if err := s.guard.Authorize(ctx, p, authz.ActionDeleteUser, authz.Target{Kind: authz.TargetUser, ID: id}); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.users.DeleteProfilesByUserID(ctx, tx, id); err != nil {
			return err
		}
		return s.users.Delete(ctx, tx, id)
	})
}

func (s *UserService) UpdateMyLecturerProfile(ctx context.Context, p authz.Principal, req UpdateLecturerProfileRequest) (*model.LecturerProfile, error) {
	if p.Role != model.RoleLecturer {
		return nil, fmt.Errorf("only lecturers have a lecturer profile: %w", common.ErrForbidden)
	}
	profile, err := s.users.LecturerProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if req.Department != nil {
		profile.Department = *req.Department
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Qualification != nil {
		profile.Qualification = *req.Qualification
	}
	if err := s.users.UpdateLecturerProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) UpdateMyStudentProfile(ctx context.Context, p authz.Principal, req UpdateStudentProfileRequest) (*model.StudentProfile, error) {
	if p.Role != model.RoleStudent {
		return nil, fmt.Errorf("only students have a student profile: %w", common.ErrForbidden)
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	profile, err := s.users.StudentProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if req.EnrollmentNumber != nil {
		profile.EnrollmentNumber = *req.EnrollmentNumber
	}
	if req.Semester != nil {
		profile.Semester = *req.Semester
	}
	if req.Program != nil {
		profile.Program = *req.Program
	}
	if err := s.users.UpdateStudentProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// AdminList pages through accounts, optionally filtered by role.
func (s *UserService) AdminList(ctx context.Context, p authz.Principal, role *model.Role, limit, offset int) ([]model.User, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionAdministerUsers, authz.Target{}); err != nil {
		return nil, err
	}
	if role != nil && !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", *role, common.ErrValidation)
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, role, limit, offset)
}

// AdminCreate provisions an account of any role, including further admins.
func (s *UserService) AdminCreate(ctx context.Context, p authz.Principal, req AdminCreateUserRequest) (*model.User, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionAdministerUsers, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: hashed,
		Role:           req.Role,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		IsActive:       true,
	}
	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		switch req.Role {
		case model.RoleLecturer:
			user.LecturerProfile = &model.LecturerProfile{
				ID:            uuid.NewString(),
				UserID:        user.ID,
				Department:    req.Department,
				Bio:           req.Bio,
				Qualification: req.Qualification,
			}
			return s.users.CreateLecturerProfile(ctx, tx, user.LecturerProfile)
		case model.RoleStudent:
			user.StudentProfile = &model.StudentProfile{
				ID:               uuid.NewString(),
				UserID:           user.ID,
				EnrollmentNumber: req.EnrollmentNumber,
				Semester:         req.Semester,
				Program:          req.Program,
			}
			return s.users.CreateStudentProfile(ctx, tx, user.StudentProfile)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AdminSetActive toggles the account flag. Deactivation takes effect on the
// target's next request.
func (s *UserService) AdminSetActive(ctx context.Context, p authz.Principal, id string, active bool) (*model.User, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionAdministerUsers, authz.Target{}); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AdminDelete removes an account. Self-deletion is rejected so the system
// cannot lose its last admin by accident.
func (s *UserService) AdminDelete(ctx context.Context, p authz.Principal, id string) error {
	if err := s.guard.Authorize(ctx, p, authz.ActionAdminDeleteUser, authz.Target{Kind: authz.TargetUser, ID: id}); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.users.DeleteProfilesByUserID(ctx, tx, id); err != nil {
			return err
		}
		return s.users.Delete(ctx, tx, id)
	})
}

func (s *UserService) attachProfile(ctx context.Context, user *model.User) {
	switch user.Role {
	case model.RoleLecturer:
		if p, err := s.users.LecturerProfileByUserID(ctx, user.ID); err == nil {
			user.LecturerProfile = p
		}
	case model.RoleStudent:
		if p, err := s.users.StudentProfileByUserID(ctx, user.ID); err == nil {
			user.StudentProfile = p
		}
	}
}
