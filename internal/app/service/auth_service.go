package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/common/security"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
	"github.com/PAA-LMS/lms-backend/internal/platform/tokenstore"
)

type SignupRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	Username  string     `json:"username" validate:"required,min=3,max=50"`
	Password  string     `json:"password" validate:"required,min=8"`
	Role      model.Role `json:"role" validate:"required,oneof=lecturer student"`
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`

	// Lecturer profile fields.
	Department    string `json:"department,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Qualification string `json:"qualification,omitempty"`

	// Student profile fields.
	EnrollmentNumber string `json:"enrollment_number,omitempty"`
	Semester         int    `json:"semester,omitempty"`
	Program          string `json:"program,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

type AuthService struct {
	users repository.UserRepository
	tx    repository.Transactor
}

func NewAuthService(users repository.UserRepository, tx repository.Transactor) *AuthService {
	return &AuthService{users: users, tx: tx}
}

// Signup registers a lecturer or student account together with its role
// profile, atomically. Admin accounts are provisioned by an admin or the CLI,
// never through signup.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
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

// Login accepts a username or an email as the identifier. A wrong identifier
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.users.FindByEmail(ctx, req.Username)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("incorrect username or password: %w", common.ErrUnauthenticated)
		}
		return nil, err
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, fmt.Errorf("incorrect username or password: %w", common.ErrUnauthenticated)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is disabled: %w", common.ErrAccountDisabled)
	}

	token, err := security.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.attachProfile(ctx, user)
	return &LoginResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// Logout denylists the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string, expiry time.Time) error {
	return tokenstore.Revoke(ctx, token, expiry)
}

// attachProfile is best-effort: a user whose profile row is missing still
// logs in, the profile simply stays nil.
func (s *AuthService) attachProfile(ctx context.Context, user *model.User) {
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
