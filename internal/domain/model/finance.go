package model

import (
	"fmt"
	"time"

	"github.com/PAA-LMS/lms-backend/internal/common"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentVerified, PaymentRejected:
		return true
	}
	return false
}

type PaymentAnnouncement struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Amount         string    `json:"amount"`
	PaymentDetails string    `json:"payment_details"`
	DueDate        time.Time `json:"due_date"`
	CreatedBy      string    `json:"created_by"` // User (lecturer or admin)
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PaymentSubmission is a student's payment proof for an announcement. One row
// per (student, announcement); a second create attempt is rejected and the
// student must go through update instead.
type PaymentSubmission struct {
	ID                string        `json:"id"`
	AnnouncementID    string        `json:"announcement_id"`
	StudentID         string        `json:"student_id"` // StudentProfile
	PaymentSlipURL    string        `json:"payment_slip_url"`
	AmountPaid        string        `json:"amount_paid"`
	PaymentDate       time.Time     `json:"payment_date"`
	Status            PaymentStatus `json:"status"`
	Notes             string        `json:"notes,omitempty"`
	VerificationNotes string        `json:"verification_notes,omitempty"`
	SubmittedAt       time.Time     `json:"submitted_at"`
	VerifiedAt        *time.Time    `json:"verified_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Mutable reports whether the owning student may still change the row.
// Once verification begins the row is read-only to the student.
func (p *PaymentSubmission) Mutable() bool {
	return p.Status == PaymentPending
}

// StudentUpdate applies a student correction. Rejected once the lecturer has
// acted on the row.
func (p *PaymentSubmission) StudentUpdate(slipURL, amountPaid, notes string, paymentDate *time.Time) error {
	if !p.Mutable() {
		return fmt.Errorf("cannot update submission with status %q, only pending submissions can be updated: %w", p.Status, common.ErrConflict)
	}
	if slipURL != "" {
		p.PaymentSlipURL = slipURL
	}
	if amountPaid != "" {
		p.AmountPaid = amountPaid
	}
	if notes != "" {
		p.Notes = notes
	}
	if paymentDate != nil {
		p.PaymentDate = *paymentDate
	}
	return nil
}

// Decide records the lecturer decision. VerifiedAt is stamped the first time
// the status leaves pending and never cleared; re-invoking verification to
// correct a mistaken decision is allowed.
func (p *PaymentSubmission) Decide(status PaymentStatus, notes string, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("status must be one of: pending, verified, rejected: %w", common.ErrValidation)
	}
	p.Status = status
	p.VerificationNotes = notes
	if status != PaymentPending && p.VerifiedAt == nil {
		t := now
		p.VerifiedAt = &t
	}
	return nil
}

type PaymentSubmissionWithStudent struct {
	PaymentSubmission
	Student StudentInfo `json:"student"`
}
