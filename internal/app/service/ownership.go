package service

import (
	"context"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
)

// OwnershipResolver walks a target entity up its containment chain
// (submission -> material -> week -> course, exam -> course) to the lecturer
// profile owning the enclosing course. A broken hop surfaces as NotFound for
// the entity that was missing.
type OwnershipResolver struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	weeks       repository.WeekRepository
	materials   repository.MaterialRepository
	exams       repository.ExamRepository
	assignments repository.AssignmentSubmissionRepository
}

func NewOwnershipResolver(
	users repository.UserRepository,
	courses repository.CourseRepository,
	weeks repository.WeekRepository,
	materials repository.MaterialRepository,
	exams repository.ExamRepository,
	assignments repository.AssignmentSubmissionRepository,
) *OwnershipResolver {
	return &OwnershipResolver{
		users:       users,
		courses:     courses,
		weeks:       weeks,
		materials:   materials,
		exams:       exams,
		assignments: assignments,
	}
}

func (o *OwnershipResolver) ResolveCourseOwner(ctx context.Context, target authz.Target) (*model.LecturerProfile, error) {
	courseID, err := o.resolveCourseID(ctx, target)
	if err != nil {
		return nil, err
	}
	course, err := o.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return o.users.LecturerProfileByID(ctx, course.LecturerID)
}

func (o *OwnershipResolver) resolveCourseID(ctx context.Context, target authz.Target) (string, error) {
	switch target.Kind {
	case authz.TargetCourse:
		return target.ID, nil

	case authz.TargetWeek:
		week, err := o.weeks.FindByID(ctx, target.ID)
		if err != nil {
			return "", err
		}
		return week.CourseID, nil

	case authz.TargetMaterial:
		material, err := o.materials.FindByID(ctx, target.ID)
		if err != nil {
			return "", err
		}
		week, err := o.weeks.FindByID(ctx, material.WeekID)
		if err != nil {
			return "", err
		}
		return week.CourseID, nil

	case authz.TargetExam:
		exam, err := o.exams.FindExamByID(ctx, target.ID)
		if err != nil {
			return "", err
		}
		return exam.CourseID, nil

	case authz.TargetAssignmentSubmission:
		sub, err := o.assignments.FindByID(ctx, target.ID)
		if err != nil {
			return "", err
		}
		return o.resolveCourseID(ctx, authz.Target{Kind: authz.TargetMaterial, ID: sub.AssignmentID})

	case authz.TargetExamSubmission:
		sub, err := o.exams.FindSubmissionByID(ctx, target.ID)
		if err != nil {
			return "", err
		}
		return o.resolveCourseID(ctx, authz.Target{Kind: authz.TargetExam, ID: sub.ExamID})
	}

	return "", fmt.Errorf("target %q has no enclosing course: %w", target.Kind, common.ErrValidation)
}
