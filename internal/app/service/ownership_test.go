package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

func TestResolveCourseOwnerWalksContainmentChain(t *testing.T) {
	env := newTestEnv()
	lecturer := env.addLecturer("lecturer1")
	student := env.addStudent("student1")
	ctx := context.Background()

	course, err := env.catalog.CreateCourse(ctx, lecturer, CreateCourseRequest{Title: "Crypto"})
	require.NoError(t, err)
	week, err := env.catalog.CreateWeek(ctx, lecturer, CreateWeekRequest{CourseID: course.ID, WeekNumber: 1, Title: "W1"})
	require.NoError(t, err)
	material, err := env.catalog.CreateMaterial(ctx, lecturer, CreateMaterialRequest{
		WeekID: week.ID, Title: "HW", Type: model.MaterialAssignment, Content: "https://uni.edu/hw",
	})
	require.NoError(t, err)
	sub, err := env.assignment.Submit(ctx, student, SubmitAssignmentRequest{
		AssignmentID: material.ID, SubmissionURL: "https://drive.example.com/hw",
	})
	require.NoError(t, err)

	exam, err := env.exam.Create(ctx, lecturer, CreateExamRequest{
		CourseID: course.ID, Title: "Final",
		StartTime: time.Now().Add(-time.Hour), EndTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	examSub, err := env.exam.Submit(ctx, student, exam.ID, SubmitExamRequest{Answers: map[string]string{"q": "a"}})
	require.NoError(t, err)

	resolver := NewOwnershipResolver(env.users, env.courses, env.weeks, env.materials, env.exams, env.assignments)

	targets := []authz.Target{
		{Kind: authz.TargetCourse, ID: course.ID},
		{Kind: authz.TargetWeek, ID: week.ID},
		{Kind: authz.TargetMaterial, ID: material.ID},
		{Kind: authz.TargetExam, ID: exam.ID},
		{Kind: authz.TargetAssignmentSubmission, ID: sub.ID},
		{Kind: authz.TargetExamSubmission, ID: examSub.ID},
	}
	for _, target := range targets {
		owner, err := resolver.ResolveCourseOwner(ctx, target)
		require.NoError(t, err, "target kind %s", target.Kind)
		assert.Equal(t, lecturer.UserID, owner.UserID)
	}
}

func TestResolveCourseOwnerMissingHop(t *testing.T) {
	env := newTestEnv()
	resolver := NewOwnershipResolver(env.users, env.courses, env.weeks, env.materials, env.exams, env.assignments)
	ctx := context.Background()

	for _, kind := range []authz.TargetKind{
		authz.TargetCourse, authz.TargetWeek, authz.TargetMaterial,
		authz.TargetExam, authz.TargetAssignmentSubmission, authz.TargetExamSubmission,
	} {
		_, err := resolver.ResolveCourseOwner(ctx, authz.Target{Kind: kind, ID: "missing"})
		require.ErrorIs(t, err, common.ErrNotFound, "target kind %s", kind)
	}

	// A target kind with no enclosing course cannot be ownership-gated.
	_, err := resolver.ResolveCourseOwner(ctx, authz.Target{Kind: authz.TargetUser, ID: "u1"})
	require.ErrorIs(t, err, common.ErrValidation)
}
