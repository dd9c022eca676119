package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

type PaymentRepository interface {
	CreateAnnouncement(ctx context.Context, a *model.PaymentAnnouncement) error
	FindAnnouncementByID(ctx context.Context, id string) (*model.PaymentAnnouncement, error)
	ListAnnouncements(ctx context.Context) ([]model.PaymentAnnouncement, error)
	UpdateAnnouncement(ctx context.Context, a *model.PaymentAnnouncement) error
	DeleteAnnouncement(ctx context.Context, tx *sql.Tx, id string) error

	CreateSubmission(ctx context.Context, tx *sql.Tx, s *model.PaymentSubmission) error
	UpdateSubmission(ctx context.Context, tx *sql.Tx, s *model.PaymentSubmission) error
	FindSubmissionByID(ctx context.Context, id string) (*model.PaymentSubmission, error)
	FindSubmissionByAnnouncementAndStudent(ctx context.Context, announcementID, studentID string) (*model.PaymentSubmission, error)
	ListSubmissionsByStudent(ctx context.Context, studentID string) ([]model.PaymentSubmission, error)
	ListSubmissionsByAnnouncement(ctx context.Context, announcementID string) ([]model.PaymentSubmissionWithStudent, error)
	DeleteSubmissionsByAnnouncement(ctx context.Context, tx *sql.Tx, announcementID string) error
}

type pgPaymentRepository struct {
	db *sql.DB
}

func NewPgPaymentRepository(db *sql.DB) PaymentRepository {
	return &pgPaymentRepository{db: db}
}

const announcementColumns = `id, title, description, amount, payment_details, due_date, created_by, created_at, updated_at`

func scanAnnouncement(row interface{ Scan(...interface{}) error }) (*model.PaymentAnnouncement, error) {
	a := &model.PaymentAnnouncement{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Amount, &a.PaymentDetails,
		&a.DueDate, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *pgPaymentRepository) CreateAnnouncement(ctx context.Context, a *model.PaymentAnnouncement) error {
	query := `INSERT INTO payment_announcements (id, title, description, amount, payment_details, due_date, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Title, a.Description, a.Amount, a.PaymentDetails, a.DueDate, a.CreatedBy)
	if err != nil {
		return fmt.Errorf("pgPaymentRepository.CreateAnnouncement: %w", err)
	}
	return nil
}

func (r *pgPaymentRepository) FindAnnouncementByID(ctx context.Context, id string) (*model.PaymentAnnouncement, error) {
	query := `SELECT ` + announcementColumns + ` FROM payment_announcements WHERE id = $1`
	a, err := scanAnnouncement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPaymentRepository.FindAnnouncementByID: %w", err)
	}
	return a, nil
}

func (r *pgPaymentRepository) ListAnnouncements(ctx context.Context) ([]model.PaymentAnnouncement, error) {
	query := `SELECT ` + announcementColumns + ` FROM payment_announcements ORDER BY due_date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgPaymentRepository.ListAnnouncements: %w", err)
	}
	defer rows.Close()

	var out []model.PaymentAnnouncement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("pgPaymentRepository.ListAnnouncements scan: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *pgPaymentRepository) UpdateAnnouncement(ctx context.Context, a *model.PaymentAnnouncement) error {
	query := `UPDATE payment_announcements
	          SET title = $2, description = $3, amount = $4, payment_details = $5, due_date = $6, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, a.ID, a.Title, a.Description, a.Amount, a.PaymentDetails, a.DueDate)
	if err != nil {
		return fmt.Errorf("pgPaymentRepository.UpdateAnnouncement: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgPaymentRepository) DeleteAnnouncement(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM payment_announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPaymentRepository.DeleteAnnouncement: %w", err)
	}
	return requireRowAffected(res)
}

const paymentSubColumns = `id, announcement_id, student_id, payment_slip_url, amount_paid, payment_date, status, notes, verification_notes, submitted_at, verified_at, created_at, updated_at`

func scanPaymentSub(row interface{ Scan(...interface{}) error }) (*model.PaymentSubmission, error) {
	s := &model.PaymentSubmission{}
	var notes, verificationNotes sql.NullString
	err := row.Scan(
		&s.ID, &s.AnnouncementID, &s.StudentID, &s.PaymentSlipURL, &s.AmountPaid, &s.PaymentDate,
		&s.Status, &notes, &verificationNotes, &s.SubmittedAt, &s.VerifiedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Notes = notes.String
	s.VerificationNotes = verificationNotes.String
	return s, nil
}

func (r *pgPaymentRepository) CreateSubmission(ctx context.Context, tx *sql.Tx, s *model.PaymentSubmission) error {
	query := `INSERT INTO payment_submissions (id, announcement_id, student_id, payment_slip_url, amount_paid, payment_date, status, notes, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := tx.ExecContext(ctx, query,
		s.ID, s.AnnouncementID, s.StudentID, s.PaymentSlipURL, s.AmountPaid, s.PaymentDate,
		s.Status, nullString(s.Notes), s.SubmittedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment already submitted for this announcement: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPaymentRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgPaymentRepository) UpdateSubmission(ctx context.Context, tx *sql.Tx, s *model.PaymentSubmission) error {
	query := `UPDATE payment_submissions
	          SET payment_slip_url = $2, amount_paid = $3, payment_date = $4, status = $5, notes = $6, verification_notes = $7, verified_at = $8, updated_at = now()
	          WHERE id = $1`
	res, err := tx.ExecContext(ctx, query,
		s.ID, s.PaymentSlipURL, s.AmountPaid, s.PaymentDate, s.Status,
		nullString(s.Notes), nullString(s.VerificationNotes), s.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("pgPaymentRepository.UpdateSubmission: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgPaymentRepository) FindSubmissionByID(ctx context.Context, id string) (*model.PaymentSubmission, error) {
	query := `SELECT ` + paymentSubColumns + ` FROM payment_submissions WHERE id = $1`
	s, err := scanPaymentSub(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPaymentRepository.FindSubmissionByID: %w", err)
	}
	return s, nil
}

func (r *pgPaymentRepository) FindSubmissionByAnnouncementAndStudent(ctx context.Context, announcementID, studentID string) (*model.PaymentSubmission, error) {
	query := `SELECT ` + paymentSubColumns + ` FROM payment_submissions WHERE announcement_id = $1 AND student_id = $2`
	s, err := scanPaymentSub(r.db.QueryRowContext(ctx, query, announcementID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPaymentRepository.FindSubmissionByAnnouncementAndStudent: %w", err)
	}
	return s, nil
}

func (r *pgPaymentRepository) ListSubmissionsByStudent(ctx context.Context, studentID string) ([]model.PaymentSubmission, error) {
	query := `SELECT ` + paymentSubColumns + ` FROM payment_submissions WHERE student_id = $1 ORDER BY submitted_at`
	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("pgPaymentRepository.ListSubmissionsByStudent: %w", err)
	}
	defer rows.Close()

	var out []model.PaymentSubmission
	for rows.Next() {
		s, err := scanPaymentSub(rows)
		if err != nil {
			return nil, fmt.Errorf("pgPaymentRepository.ListSubmissionsByStudent scan: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *pgPaymentRepository) ListSubmissionsByAnnouncement(ctx context.Context, announcementID string) ([]model.PaymentSubmissionWithStudent, error) {
	query := `SELECT s.id, s.announcement_id, s.student_id, s.payment_slip_url, s.amount_paid, s.payment_date,
	                 s.status, s.notes, s.verification_notes, s.submitted_at, s.verified_at, s.created_at, s.updated_at,
	                 sp.id, sp.enrollment_number, u.id, u.first_name, u.last_name, u.email
	          FROM payment_submissions s
	          JOIN student_profiles sp ON s.student_id = sp.id
	          JOIN users u ON sp.user_id = u.id
	          WHERE s.announcement_id = $1
	          ORDER BY s.submitted_at`
	rows, err := r.db.QueryContext(ctx, query, announcementID)
	if err != nil {
		return nil, fmt.Errorf("pgPaymentRepository.ListSubmissionsByAnnouncement: %w", err)
	}
	defer rows.Close()

	var out []model.PaymentSubmissionWithStudent
	for rows.Next() {
		var item model.PaymentSubmissionWithStudent
		var notes, verificationNotes sql.NullString
		err := rows.Scan(
			&item.ID, &item.AnnouncementID, &item.StudentID, &item.PaymentSlipURL, &item.AmountPaid, &item.PaymentDate,
			&item.Status, &notes, &verificationNotes, &item.SubmittedAt, &item.VerifiedAt, &item.CreatedAt, &item.UpdatedAt,
			&item.Student.ProfileID, &item.Student.EnrollmentNumber,
			&item.Student.UserID, &item.Student.FirstName, &item.Student.LastName, &item.Student.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("pgPaymentRepository.ListSubmissionsByAnnouncement scan: %w", err)
		}
		item.Notes = notes.String
		item.VerificationNotes = verificationNotes.String
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *pgPaymentRepository) DeleteSubmissionsByAnnouncement(ctx context.Context, tx *sql.Tx, announcementID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM payment_submissions WHERE announcement_id = $1`, announcementID)
	if err != nil {
		return fmt.Errorf("pgPaymentRepository.DeleteSubmissionsByAnnouncement: %w", err)
	}
	return nil
}
