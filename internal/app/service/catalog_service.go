package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
)

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
}

type CreateWeekRequest struct {
	CourseID    string `json:"course_id" validate:"required"`
	WeekNumber  int    `json:"week_number" validate:"required,min=1"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
}

type UpdateWeekRequest struct {
	WeekNumber  *int    `json:"week_number,omitempty" validate:"omitempty,min=1"`
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
}

type CreateMaterialRequest struct {
	WeekID      string             `json:"week_id" validate:"required"`
	Title       string             `json:"title" validate:"required,max=200"`
	Description string             `json:"description"`
	Type        model.MaterialType `json:"material_type" validate:"required,oneof=link drive_url assignment"`
	Content     string             `json:"content" validate:"required"`
}

type UpdateMaterialRequest struct {
	Title       *string             `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string             `json:"description,omitempty"`
	Type        *model.MaterialType `json:"material_type,omitempty" validate:"omitempty,oneof=link drive_url assignment"`
	Content     *string             `json:"content,omitempty"`
}

// CatalogService manages the course -> week -> material tree. Every mutation
// is ownership-gated through the guard; reads are open to any authenticated,
// active principal.
type CatalogService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	weeks       repository.WeekRepository
	materials   repository.MaterialRepository
	exams       repository.ExamRepository
	assignments repository.AssignmentSubmissionRepository
	guard       *authz.Guard
	tx          repository.Transactor
}

func NewCatalogService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	weeks repository.WeekRepository,
	materials repository.MaterialRepository,
	exams repository.ExamRepository,
	assignments repository.AssignmentSubmissionRepository,
	guard *authz.Guard,
	tx repository.Transactor,
) *CatalogService {
	return &CatalogService{
		users:       users,
		courses:     courses,
		weeks:       weeks,
		materials:   materials,
		exams:       exams,
		assignments: assignments,
		guard:       guard,
		tx:          tx,
	}
}

func (s *CatalogService) CreateCourse(ctx context.Context, p authz.Principal, req CreateCourseRequest) (*model.Course, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionCreateCourse, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	profile, err := s.users.LecturerProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		ID:          uuid.NewString(),
		LecturerID:  profile.ID,
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CatalogService) GetCourse(ctx context.Context, p authz.Principal, id string) (*model.Course, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	return s.courses.FindByID(ctx, id)
}

func (s *CatalogService) ListCourses(ctx context.Context, p authz.Principal, limit, offset int) ([]model.Course, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.courses.List(ctx, limit, offset)
}

// MyCourses lists the acting lecturer's own courses.
func (s *CatalogService) MyCourses(ctx context.Context, p authz.Principal) ([]model.Course, error) {
	if p.Role != model.RoleLecturer {
		return nil, fmt.Errorf("only lecturers own courses: %w", common.ErrForbidden)
	}
	profile, err := s.users.LecturerProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.courses.ListByLecturer(ctx, profile.ID)
}

func (s *CatalogService) UpdateCourse(ctx context.Context, p authz.Principal, id string, req UpdateCourseRequest) (*model.Course, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageCourse, authz.Target{Kind: authz.TargetCourse, ID: id}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		course.Title = *req.Title
		course.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes the course and everything beneath it in one
// transaction: submissions first, then exams, materials, weeks, and finally
// the course row. No orphan may survive a partial failure.
func (s *CatalogService) DeleteCourse(ctx context.Context, p authz.Principal, id string) error {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageCourse, authz.Target{Kind: authz.TargetCourse, ID: id}); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.assignments.DeleteByCourse(ctx, tx, id); err != nil {
			return err
		}
		if err := s.exams.DeleteSubmissionsByCourse(ctx, tx, id); err != nil {
			return err
		}
		if err := s.exams.DeleteExamsByCourse(ctx, tx, id); err != nil {
			return err
		}
		if err := s.materials.DeleteByCourse(ctx, tx, id); err != nil {
			return err
		}
		if err := s.weeks.DeleteByCourse(ctx, tx, id); err != nil {
			return err
		}
		return s.courses.Delete(ctx, tx, id)
	})
}

func (s *CatalogService) CreateWeek(ctx context.Context, p authz.Principal, req CreateWeekRequest) (*model.CourseWeek, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, p, authz.ActionManageCourse, authz.Target{Kind: authz.TargetCourse, ID: req.CourseID}); err != nil {
		return nil, err
	}

	week := &model.CourseWeek{
		ID:          uuid.NewString(),
		CourseID:    req.CourseID,
		WeekNumber:  req.WeekNumber,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.weeks.Create(ctx, week); err != nil {
		return nil, err
	}
	return week, nil
}

func (s *CatalogService) GetWeek(ctx context.Context, p authz.Principal, id string) (*model.CourseWeek, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	return s.weeks.FindByID(ctx, id)
}

func (s *CatalogService) ListWeeks(ctx context.Context, p authz.Principal, courseID string) ([]model.CourseWeek, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.weeks.ListByCourse(ctx, courseID)
}

func (s *CatalogService) UpdateWeek(ctx context.Context, p authz.Principal, id string, req UpdateWeekRequest) (*model.CourseWeek, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageWeek, authz.Target{Kind: authz.TargetWeek, ID: id}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	week, err := s.weeks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.WeekNumber != nil {
		week.WeekNumber = *req.WeekNumber
	}
	if req.Title != nil {
		week.Title = *req.Title
	}
	if req.Description != nil {
		week.Description = *req.Description
	}
	if err := s.weeks.Update(ctx, week); err != nil {
		return nil, err
	}
	return week, nil
}

// DeleteWeek cascades to the week's materials and their submissions.
func (s *CatalogService) DeleteWeek(ctx context.Context, p authz.Principal, id string) error {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageWeek, authz.Target{Kind: authz.TargetWeek, ID: id}); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.assignments.DeleteByWeek(ctx, tx, id); err != nil {
			return err
		}
		if err := s.materials.DeleteByWeek(ctx, tx, id); err != nil {
			return err
		}
		return s.weeks.Delete(ctx, tx, id)
	})
}

func (s *CatalogService) CreateMaterial(ctx context.Context, p authz.Principal, req CreateMaterialRequest) (*model.CourseMaterial, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, p, authz.ActionManageWeek, authz.Target{Kind: authz.TargetWeek, ID: req.WeekID}); err != nil {
		return nil, err
	}

	material := &model.CourseMaterial{
		ID:          uuid.NewString(),
		WeekID:      req.WeekID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Content:     req.Content,
	}
	if err := s.materials.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *CatalogService) GetMaterial(ctx context.Context, p authz.Principal, id string) (*model.CourseMaterial, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	return s.materials.FindByID(ctx, id)
}

func (s *CatalogService) ListMaterials(ctx context.Context, p authz.Principal, weekID string) ([]model.CourseMaterial, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	if _, err := s.weeks.FindByID(ctx, weekID); err != nil {
		return nil, err
	}
	return s.materials.ListByWeek(ctx, weekID)
}

func (s *CatalogService) UpdateMaterial(ctx context.Context, p authz.Principal, id string, req UpdateMaterialRequest) (*model.CourseMaterial, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageMaterial, authz.Target{Kind: authz.TargetMaterial, ID: id}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		material.Title = *req.Title
	}
	if req.Description != nil {
		material.Description = *req.Description
	}
	if req.Type != nil {
		material.Type = *req.Type
	}
	if req.Content != nil {
		material.Content = *req.Content
	}
	if err := s.materials.Update(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// DeleteMaterial cascades to the material's assignment submissions.
func (s *CatalogService) DeleteMaterial(ctx context.Context, p authz.Principal, id string) error {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageMaterial, authz.Target{Kind: authz.TargetMaterial, ID: id}); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.assignments.DeleteByMaterial(ctx, tx, id); err != nil {
			return err
		}
		return s.materials.Delete(ctx, tx, id)
	})
}
