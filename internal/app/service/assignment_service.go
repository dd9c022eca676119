package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
)

type SubmitAssignmentRequest struct {
	AssignmentID  string `json:"assignment_id" validate:"required"`
	SubmissionURL string `json:"submission_url" validate:"required,url"`
}

type GradeRequest struct {
	Grade    string `json:"grade,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

type AssignmentService struct {
	users       repository.UserRepository
	materials   repository.MaterialRepository
	submissions repository.AssignmentSubmissionRepository
	guard       *authz.Guard
	tx          repository.Transactor
	now         func() time.Time
}

func NewAssignmentService(
	users repository.UserRepository,
	materials repository.MaterialRepository,
	submissions repository.AssignmentSubmissionRepository,
	guard *authz.Guard,
	tx repository.Transactor,
) *AssignmentService {
	return &AssignmentService{
		users:       users,
		materials:   materials,
		submissions: submissions,
		guard:       guard,
		tx:          tx,
		now:         time.Now,
	}
}

// Submit upserts the student's submission for an assignment material.
// A first call creates the row; later calls overwrite it while it is still
// ungraded, and fail with a conflict once grading has happened.
func (s *AssignmentService) Submit(ctx context.Context, p authz.Principal, req SubmitAssignmentRequest) (*model.AssignmentSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionSubmitAssignment, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	material, err := s.materials.FindByID(ctx, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	if material.Type != model.MaterialAssignment {
		return nil, fmt.Errorf("material is not an assignment: %w", common.ErrValidation)
	}

	profile, err := s.users.StudentProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	var out *model.AssignmentSubmission
	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.submissions.FindByAssignmentAndStudent(ctx, req.AssignmentID, profile.ID)
		switch {
		case err == nil:
			if err := existing.Resubmit(req.SubmissionURL, s.now()); err != nil {
				return err
			}
			if err := s.submissions.Update(ctx, tx, existing); err != nil {
				return err
			}
			out = existing
			return nil
		case errors.Is(err, common.ErrNotFound):
			sub := &model.AssignmentSubmission{
				ID:            uuid.NewString(),
				AssignmentID:  req.AssignmentID,
				StudentID:     profile.ID,
				SubmissionURL: req.SubmissionURL,
				Status:        model.StatusSubmitted,
				SubmittedAt:   s.now(),
			}
			if err := s.submissions.Create(ctx, tx, sub); err != nil {
				return err
			}
			out = sub
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MySubmission returns the acting student's submission for an assignment,
// or NotFound if they have not submitted.
func (s *AssignmentService) MySubmission(ctx context.Context, p authz.Principal, assignmentID string) (*model.AssignmentSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionViewOwnWork, authz.Target{}); err != nil {
		return nil, err
	}
	profile, err := s.users.StudentProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.submissions.FindByAssignmentAndStudent(ctx, assignmentID, profile.ID)
}

// ListForMaterial returns all submissions for an assignment, with student
// identity attached. Owning lecturer only.
func (s *AssignmentService) ListForMaterial(ctx context.Context, p authz.Principal, assignmentID string) ([]model.AssignmentSubmissionWithStudent, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionListSubmissions, authz.Target{Kind: authz.TargetMaterial, ID: assignmentID}); err != nil {
		return nil, err
	}
	return s.submissions.ListByAssignment(ctx, assignmentID)
}

// Grade records grade and feedback on a submission, freezing it against
// further student edits. Amending an already graded row is allowed.
func (s *AssignmentService) Grade(ctx context.Context, p authz.Principal, submissionID string, req GradeRequest) (*model.AssignmentSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionGradeSubmission, authz.Target{Kind: authz.TargetAssignmentSubmission, ID: submissionID}); err != nil {
		return nil, err
	}
	if req.Grade == "" && req.Feedback == "" {
		return nil, fmt.Errorf("grade or feedback is required: %w", common.ErrValidation)
	}

	var out *model.AssignmentSubmission
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		sub, err := s.submissions.FindByID(ctx, submissionID)
		if err != nil {
			return err
		}
		sub.ApplyGrade(req.Grade, req.Feedback, s.now())
		if err := s.submissions.Update(ctx, tx, sub); err != nil {
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
