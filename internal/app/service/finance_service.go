package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
)

type CreateAnnouncementRequest struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description"`
	Amount         string    `json:"amount" validate:"required"`
	PaymentDetails string    `json:"payment_details" validate:"required"`
	DueDate        time.Time `json:"due_date" validate:"required"`
}

type UpdateAnnouncementRequest struct {
	Title          *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description    *string    `json:"description,omitempty"`
	Amount         *string    `json:"amount,omitempty"`
	PaymentDetails *string    `json:"payment_details,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

type SubmitPaymentRequest struct {
	AnnouncementID string    `json:"announcement_id" validate:"required"`
	PaymentSlipURL string    `json:"payment_slip_url" validate:"required,url"`
	AmountPaid     string    `json:"amount_paid" validate:"required"`
	PaymentDate    time.Time `json:"payment_date" validate:"required"`
	Notes          string    `json:"notes,omitempty"`
}

type UpdatePaymentRequest struct {
	PaymentSlipURL string     `json:"payment_slip_url,omitempty" validate:"omitempty,url"`
	AmountPaid     string     `json:"amount_paid,omitempty"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

type VerifyPaymentRequest struct {
	Status            model.PaymentStatus `json:"status" validate:"required,oneof=pending verified rejected"`
	VerificationNotes string              `json:"verification_notes,omitempty"`
}

// FinanceService covers payment announcements and payment proof submissions.
// Announcements sit outside the course tree, so verification is gated on
// role alone, not course ownership.
type FinanceService struct {
	users    repository.UserRepository
	payments repository.PaymentRepository
	guard    *authz.Guard
	tx       repository.Transactor
	now      func() time.Time
}

func NewFinanceService(
	users repository.UserRepository,
	payments repository.PaymentRepository,
	guard *authz.Guard,
	tx repository.Transactor,
) *FinanceService {
	return &FinanceService{
		users:    users,
		payments: payments,
		guard:    guard,
		tx:       tx,
		now:      time.Now,
	}
}

func (s *FinanceService) CreateAnnouncement(ctx context.Context, p authz.Principal, req CreateAnnouncementRequest) (*model.PaymentAnnouncement, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionManagePayments, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	a := &model.PaymentAnnouncement{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		Amount:         req.Amount,
		PaymentDetails: req.PaymentDetails,
		DueDate:        req.DueDate,
		CreatedBy:      p.UserID,
	}
	if err := s.payments.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *FinanceService) GetAnnouncement(ctx context.Context, p authz.Principal, id string) (*model.PaymentAnnouncement, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	return s.payments.FindAnnouncementByID(ctx, id)
}

func (s *FinanceService) ListAnnouncements(ctx context.Context, p authz.Principal) ([]model.PaymentAnnouncement, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionReadCatalog, authz.Target{}); err != nil {
		return nil, err
	}
	return s.payments.ListAnnouncements(ctx)
}

func (s *FinanceService) UpdateAnnouncement(ctx context.Context, p authz.Principal, id string, req UpdateAnnouncementRequest) (*model.PaymentAnnouncement, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionManagePayments, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	a, err := s.payments.FindAnnouncementByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Amount != nil {
		a.Amount = *req.Amount
	}
	if req.PaymentDetails != nil {
		a.PaymentDetails = *req.PaymentDetails
	}
	if req.DueDate != nil {
		a.DueDate = *req.DueDate
	}
	if err := s.payments.UpdateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAnnouncement removes the announcement and its submissions atomically.
func (s *FinanceService) DeleteAnnouncement(ctx context.Context, p authz.Principal, id string) error {
	if err := s.guard.Authorize(ctx, p, authz.ActionManagePayments, authz.Target{}); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.payments.DeleteSubmissionsByAnnouncement(ctx, tx, id); err != nil {
			return err
		}
		return s.payments.DeleteAnnouncement(ctx, tx, id)
	})
}

// SubmitPayment records a student's payment proof. One submission per
// announcement per student; a duplicate create is a conflict and the student
// must use UpdatePayment instead.
func (s *FinanceService) SubmitPayment(ctx context.Context, p authz.Principal, req SubmitPaymentRequest) (*model.PaymentSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionSubmitPayment, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.payments.FindAnnouncementByID(ctx, req.AnnouncementID); err != nil {
		return nil, err
	}
	profile, err := s.users.StudentProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	sub := &model.PaymentSubmission{
		ID:             uuid.NewString(),
		AnnouncementID: req.AnnouncementID,
		StudentID:      profile.ID,
		PaymentSlipURL: req.PaymentSlipURL,
		AmountPaid:     req.AmountPaid,
		PaymentDate:    req.PaymentDate,
		Status:         model.PaymentPending,
		Notes:          req.Notes,
		SubmittedAt:    s.now(),
	}
	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.payments.CreateSubmission(ctx, tx, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// MySubmissions lists the acting student's payment submissions.
func (s *FinanceService) MySubmissions(ctx context.Context, p authz.Principal) ([]model.PaymentSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionViewOwnWork, authz.Target{}); err != nil {
		return nil, err
	}
	profile, err := s.users.StudentProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.payments.ListSubmissionsByStudent(ctx, profile.ID)
}

// ListForAnnouncement returns an announcement's submissions with student
// identity, for verification.
func (s *FinanceService) ListForAnnouncement(ctx context.Context, p authz.Principal, announcementID string) ([]model.PaymentSubmissionWithStudent, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionVerifyPayment, authz.Target{}); err != nil {
		return nil, err
	}
	return s.payments.ListSubmissionsByAnnouncement(ctx, announcementID)
}

// UpdatePayment applies a student correction to their own pending submission.
// Once a verifier has acted the row is read-only to the student.
func (s *FinanceService) UpdatePayment(ctx context.Context, p authz.Principal, submissionID string, req UpdatePaymentRequest) (*model.PaymentSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionUpdateOwnPayment, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	profile, err := s.users.StudentProfileByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	var out *model.PaymentSubmission
	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		sub, err := s.payments.FindSubmissionByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if sub.StudentID != profile.ID {
			return common.Errorf("not your submission: %w", common.ErrForbidden)
		}
		if err := sub.StudentUpdate(req.PaymentSlipURL, req.AmountPaid, req.Notes, req.PaymentDate); err != nil {
			return err
		}
		if err := s.payments.UpdateSubmission(ctx, tx, sub); err != nil {
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

// Verify records the verification decision. Re-deciding a row is allowed;
// the first decision stamps VerifiedAt and it is never cleared.
func (s *FinanceService) Verify(ctx context.Context, p authz.Principal, submissionID string, req VerifyPaymentRequest) (*model.PaymentSubmission, error) {
	if err := s.guard.Authorize(ctx, p, authz.ActionVerifyPayment, authz.Target{}); err != nil {
		return nil, err
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	var out *model.PaymentSubmission
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		sub, err := s.payments.FindSubmissionByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if err := sub.Decide(req.Status, req.VerificationNotes, s.now()); err != nil {
			return err
		}
		if err := s.payments.UpdateSubmission(ctx, tx, sub); err != nil {
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
