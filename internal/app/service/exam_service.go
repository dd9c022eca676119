package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
	"github.com/PAA-LMS/lms-backend/internal/platform/filestore"
)

type CreateExamRequest struct {
	CourseID    string    `json:"course_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

type UpdateExamRequest struct {
	Title       *string           `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string           `json:"description,omitempty"`
	StartTime   *time.Time        `json:"start_time,omitempty"`
	EndTime     *time.Time        `json:"end_time,omitempty"`
	Status      *model.ExamStatus `json:"status,omitempty" validate:"omitempty,oneof=active closed"`
}

type SubmitExamRequest struct {
	Answers map[string]string `json:"answers"`
	FileURL string            `json:"file_url,omitempty" validate:"omitempty,url"`
}

// ExamSubmissionStatus tells a student where they stand on an exam without
// exposing other students' work.
type ExamSubmissionStatus struct {
	ExamID      string     `json:"exam_id"`
	Submitted   bool       `json:"submitted"`
	WindowOpen  bool       `json:"window_open"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Graded      bool       `json:"graded"`
	Grade       string     `json:"grade,omitempty"`
}

type ExamService struct {
	users   repository.UserRepository
	courses repository.CourseRepository
	exams   repository.ExamRepository
	files   *filestore.Store
	guard   *authz.Guard
	tx      repository.Transactor
	now     func() time.Time
}

func NewExamService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	exams repository.ExamRepository,
	files *filestore.Store,
	guard *authz.Guard,
	tx repository.Transactor,
) *ExamService {
	return &ExamService{
		users:   users,
		courses: courses,
		exams:   exams,
		files:   files,
		guard:   guard,
		tx:      tx,
		now:     time.Now,
	}
}

func (s *ExamService) Create(ctx context.Context, p authz.Principal, req CreateExamRequest) (*model.Exam, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, p, authz.ActionManageExam, authz.Target{Kind: authz.TargetCourse, ID: req.CourseID}); err != nil {
		return nil, err
	}

	exam := &model.Exam{
		ID:          uuid.NewString(),
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.ExamActive,
		CreatedBy:   p.UserID,
	}
	if err := s.exams.CreateExam(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Get(ctx context.Context, p authz.Principal, id string) (*model.Exam, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	return s.exams.FindExamByID(ctx, id)
}

func (s *ExamService) ListByCourse(ctx context.Context, p authz.Principal, courseID string) ([]model.Exam, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.exams.ListExamsByCourse(ctx, courseID)
}

func (s *ExamService) Update(ctx context.Context, p authz.Principal, id string, req UpdateExamRequest) (*model.Exam, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageExam, authz.Target{Kind: authz.TargetExam, ID: id}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	exam, err := s.exams.FindExamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.StartTime != nil {
		exam.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		exam.EndTime = *req.EndTime
	}
	if req.Status != nil {
		exam.Status = *req.Status
	}
	if !exam.EndTime.After(exam.StartTime) {
		return nil, fmt.Errorf("end_time must be after start_time: %w", common.ErrValidation)
	}
	if err := s.exams.UpdateExam(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// Delete removes the exam and its submissions atomically.
func (s *ExamService) Delete(ctx context.Context, p authz.Principal, id string) error {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageExam, authz.Target{Kind: authz.TargetExam, ID: id}); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.exams.DeleteSubmissionsByExam(ctx, tx, id); err != nil {
			return err
		}
		return s.exams.DeleteExam(ctx, tx, id)
	})
}

// UploadFile stores the exam paper and records its locator on the exam.
func (s *ExamService) UploadFile(ctx context.Context, p authz.Principal, id string, r io.Reader, filename string) (*model.Exam, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageExam, authz.Target{Kind: authz.TargetExam, ID: id}); err != nil {
		return nil, err
	}
	exam, err := s.exams.FindExamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	locator, err := s.files.Save(r, filename)
	if err != nil {
		return nil, fmt.Errorf("store exam file: %w", err)
	}
	exam.FileURL = locator
	if err := s.exams.UpdateExam(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// Submit records the student's single exam submission. Rejected outside the
// [start, end] window, when the exam is closed, or when a submission already
// exists. There is no resubmission path.
func (s *ExamService) Submit(ctx context.Context, p authz.Principal, examID string, req SubmitExamRequest) (*model.ExamSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionSubmitExam, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.exams.FindExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if exam.Status != model.ExamActive {
		return nil, fmt.Errorf("exam is closed: %w", common.ErrConflict)
	}
	if now.Before(exam.StartTime) {
		return nil, fmt.Errorf("exam has not started yet: %w", common.ErrConflict)
	}
	if now.After(exam.EndTime) {
		return nil, fmt.Errorf("exam submission window has closed: %w", common.ErrConflict)
	}

	profile, err := s.users.StudentProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	sub := &model.ExamSubmission{
		ID:          uuid.NewString(),
		ExamID:      examID,
		StudentID:   profile.ID,
		Answers:     req.Answers,
		FileURL:     req.FileURL,
		Status:      model.StatusSubmitted,
		SubmittedAt: now,
	}
	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.exams.CreateSubmission(ctx, tx, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// SubmissionStatus reports the acting student's standing on an exam.
func (s *ExamService) SubmissionStatus(ctx context.Context, p authz.Principal, examID string) (*ExamSubmissionStatus, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionViewOwnWork, authz.Target{}); err != nil {
		return nil, err
	}
	exam, err := s.exams.FindExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	profile, err := s.users.StudentProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	status := &ExamSubmissionStatus{
		ExamID:     examID,
		WindowOpen: exam.Status == model.ExamActive && exam.WindowOpen(s.now()),
	}
	sub, err := s.exams.FindSubmissionByExamAndStudent(ctx, examID, profile.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return status, nil
		}
		return nil, err
	}
	status.Submitted = true
	t := sub.SubmittedAt
	status.SubmittedAt = &t
	status.Graded = sub.Status == model.StatusGraded
	status.Grade = sub.Grade
	return status, nil
}

// ListSubmissions returns an exam's submissions with student identity.
// Owning lecturer only.
func (s *ExamService) ListSubmissions(ctx context.Context, p authz.Principal, examID string) ([]model.ExamSubmissionWithStudent, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionManageExam, authz.Target{Kind: authz.TargetExam, ID: examID}); err != nil {
		return nil, err
	}
	return s.exams.ListSubmissionsByExam(ctx, examID)
}

// GradeSubmission records grade and feedback on an exam submission.
func (s *ExamService) GradeSubmission(ctx context.Context, p authz.Principal, submissionID string, req GradeRequest) (*model.ExamSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionGradeSubmission, authz.Target{Kind: authz.TargetExamSubmission, ID: submissionID}); err != nil {
		return nil, err
	}
	if req.Grade == "" && req.Feedback == "" {
		return nil, fmt.Errorf("grade or feedback is required: %w", common.ErrValidation)
	}

	var out *model.ExamSubmission
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		sub, err := s.exams.FindSubmissionByID(ctx, submissionID)
		if err != nil {
			return err
		}
		sub.ApplyGrade(req.Grade, req.Feedback, s.now())
		if err := s.exams.UpdateSubmission(ctx, tx, sub); err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
