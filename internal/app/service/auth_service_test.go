package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/common/security"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/platform/config"
)

func newAuthService(env *testEnv) *AuthService {
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	security.InitJWT()
	return NewAuthService(env.users, fakeTransactor{})
}

func TestSignupCreatesUserWithProfile(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(env)
	ctx := context.Background()

	student, err := auth.Signup(ctx, SignupRequest{
		Email: "s1@uni.edu", Username: "student1", Password: "secret-pass",
		Role: model.RoleStudent, FirstName: "Sam", LastName: "Lee",
		EnrollmentNumber: "EN-001", Semester: 2, Program: "CS",
	})
	require.NoError(t, err)
	assert.True(t, student.IsActive)
	require.NotNil(t, student.StudentProfile)
	assert.Equal(t, "EN-001", student.StudentProfile.EnrollmentNumber)
	assert.NotEqual(t, "secret-pass", student.HashedPassword)

	lecturer, err := auth.Signup(ctx, SignupRequest{
		Email: "l1@uni.edu", Username: "lecturer1", Password: "secret-pass",
		Role: model.RoleLecturer, FirstName: "Lee", LastName: "Ng",
		Department: "CS",
	})
	require.NoError(t, err)
	require.NotNil(t, lecturer.LecturerProfile)
	assert.Equal(t, "CS", lecturer.LecturerProfile.Department)
}

func TestSignupRejectsAdminRole(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(env)

	_, err := auth.Signup(context.Background(), SignupRequest{
		Email: "a@uni.edu", Username: "admin1", Password: "secret-pass",
		Role: model.RoleAdmin, FirstName: "A", LastName: "D",
	})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestSignupDuplicateConflicts(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(env)
	ctx := context.Background()

	req := SignupRequest{
		Email: "s1@uni.edu", Username: "student1", Password: "secret-pass",
		Role: model.RoleStudent, FirstName: "Sam", LastName: "Lee",
	}
	_, err := auth.Signup(ctx, req)
	require.NoError(t, err)

	_, err = auth.Signup(ctx, req)
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(env)
	ctx := context.Background()

	_, err := auth.Signup(ctx, SignupRequest{
		Email: "s1@uni.edu", Username: "student1", Password: "secret-pass",
		Role: model.RoleStudent, FirstName: "Sam", LastName: "Lee",
	})
	require.NoError(t, err)

	// By username.
	resp, err := auth.Login(ctx, LoginRequest{Username: "student1", Password: "secret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)

	// By email.
	_, err = auth.Login(ctx, LoginRequest{Username: "s1@uni.edu", Password: "secret-pass"})
	require.NoError(t, err)

	// Wrong password and unknown user both come back as the same error.
	_, err = auth.Login(ctx, LoginRequest{Username: "student1", Password: "wrong"})
	require.ErrorIs(t, err, common.ErrUnauthenticated)
	_, err = auth.Login(ctx, LoginRequest{Username: "nobody", Password: "secret-pass"})
	require.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestLoginDisabledAccount(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(env)
	ctx := context.Background()

	user, err := auth.Signup(ctx, SignupRequest{
		Email: "s1@uni.edu", Username: "student1", Password: "secret-pass",
		Role: model.RoleStudent, FirstName: "Sam", LastName: "Lee",
	})
	require.NoError(t, err)

	u := env.users.users[user.ID]
	u.IsActive = false
	env.users.users[user.ID] = u

	_, err = auth.Login(ctx, LoginRequest{Username: "student1", Password: "secret-pass"})
	require.ErrorIs(t, err, common.ErrAccountDisabled)
}
