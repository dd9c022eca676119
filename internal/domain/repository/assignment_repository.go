package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

type AssignmentSubmissionRepository interface {
	// Create relies on the unique (assignment_id, student_id) constraint: the
	// losing side of a concurrent upsert race comes back as a conflict.
	Create(ctx context.Context, tx *sql.Tx, s *model.AssignmentSubmission) error
	Update(ctx context.Context, tx *sql.Tx, s *model.AssignmentSubmission) error
	FindByID(ctx context.Context, id string) (*model.AssignmentSubmission, error)
	FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.AssignmentSubmission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.AssignmentSubmissionWithStudent, error)
	DeleteByMaterial(ctx context.Context, tx *sql.Tx, materialID string) error
	DeleteByWeek(ctx context.Context, tx *sql.Tx, weekID string) error
	DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID string) error
}

type pgAssignmentSubmissionRepository struct {
	db *sql.DB
}

func NewPgAssignmentSubmissionRepository(db *sql.DB) AssignmentSubmissionRepository {
	return &pgAssignmentSubmissionRepository{db: db}
}

const assignmentSubColumns = `id, assignment_id, student_id, submission_url, status, grade, feedback, submitted_at, graded_at, created_at, updated_at`

func scanAssignmentSub(row interface{ Scan(...interface{}) error }) (*model.AssignmentSubmission, error) {
	s := &model.AssignmentSubmission{}
	var grade, feedback sql.NullString
	err := row.Scan(
		&s.ID, &s.AssignmentID, &s.StudentID, &s.SubmissionURL, &s.Status,
		&grade, &feedback, &s.SubmittedAt, &s.GradedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Grade = grade.String
	s.Feedback = feedback.String
	return s, nil
}

func (r *pgAssignmentSubmissionRepository) Create(ctx context.Context, tx *sql.Tx, s *model.AssignmentSubmission) error {
	query := `INSERT INTO assignment_submissions (id, assignment_id, student_id, submission_url, status, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.ExecContext(ctx, query, s.ID, s.AssignmentID, s.StudentID, s.SubmissionURL, s.Status, s.SubmittedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("submission already exists for this assignment: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgAssignmentSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgAssignmentSubmissionRepository) Update(ctx context.Context, tx *sql.Tx, s *model.AssignmentSubmission) error {
	query := `UPDATE assignment_submissions
	          SET submission_url = $2, status = $3, grade = $4, feedback = $5, submitted_at = $6, graded_at = $7, updated_at = now()
	          WHERE id = $1`
	res, err := tx.ExecContext(ctx, query,
		s.ID, s.SubmissionURL, s.Status, nullString(s.Grade), nullString(s.Feedback), s.SubmittedAt, s.GradedAt,
	)
	if err != nil {
		return fmt.Errorf("pgAssignmentSubmissionRepository.Update: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgAssignmentSubmissionRepository) FindByID(ctx context.Context, id string) (*model.AssignmentSubmission, error) {
	query := `SELECT ` + assignmentSubColumns + ` FROM assignment_submissions WHERE id = $1`
	s, err := scanAssignmentSub(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAssignmentSubmissionRepository.FindByID: %w", err)
	}
	return s, nil
}

func (r *pgAssignmentSubmissionRepository) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.AssignmentSubmission, error) {
	query := `SELECT ` + assignmentSubColumns + ` FROM assignment_submissions WHERE assignment_id = $1 AND student_id = $2`
	s, err := scanAssignmentSub(r.db.QueryRowContext(ctx, query, assignmentID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAssignmentSubmissionRepository.FindByAssignmentAndStudent: %w", err)
	}
	return s, nil
}

func (r *pgAssignmentSubmissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]model.AssignmentSubmissionWithStudent, error) {
	query := `SELECT s.id, s.assignment_id, s.student_id, s.submission_url, s.status, s.grade, s.feedback,
	                 s.submitted_at, s.graded_at, s.created_at, s.updated_at,
	                 sp.id, sp.enrollment_number, u.id, u.first_name, u.last_name, u.email
	          FROM assignment_submissions s
	          JOIN student_profiles sp ON s.student_id = sp.id
	          JOIN users u ON sp.user_id = u.id
	          WHERE s.assignment_id = $1
	          ORDER BY s.submitted_at`
	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("pgAssignmentSubmissionRepository.ListByAssignment: %w", err)
	}
	defer rows.Close()

	var out []model.AssignmentSubmissionWithStudent
	for rows.Next() {
		var item model.AssignmentSubmissionWithStudent
		var grade, feedback sql.NullString
		err := rows.Scan(
			&item.ID, &item.AssignmentID, &item.StudentID, &item.SubmissionURL, &item.Status,
			&grade, &feedback, &item.SubmittedAt, &item.GradedAt, &item.CreatedAt, &item.UpdatedAt,
			&item.Student.ProfileID, &item.Student.EnrollmentNumber,
			&item.Student.UserID, &item.Student.FirstName, &item.Student.LastName, &item.Student.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("pgAssignmentSubmissionRepository.ListByAssignment scan: %w", err)
		}
		item.Grade = grade.String
		item.Feedback = feedback.String
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *pgAssignmentSubmissionRepository) DeleteByMaterial(ctx context.Context, tx *sql.Tx, materialID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM assignment_submissions WHERE assignment_id = $1`, materialID)
	if err != nil {
		return fmt.Errorf("pgAssignmentSubmissionRepository.DeleteByMaterial: %w", err)
	}
	return nil
}

func (r *pgAssignmentSubmissionRepository) DeleteByWeek(ctx context.Context, tx *sql.Tx, weekID string) error {
	query := `DELETE FROM assignment_submissions
	          WHERE assignment_id IN (SELECT id FROM course_materials WHERE week_id = $1)`
	_, err := tx.ExecContext(ctx, query, weekID)
	if err != nil {
		return fmt.Errorf("pgAssignmentSubmissionRepository.DeleteByWeek: %w", err)
	}
	return nil
}

func (r *pgAssignmentSubmissionRepository) DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID string) error {
	query := `DELETE FROM assignment_submissions
	          WHERE assignment_id IN (
	              SELECT m.id FROM course_materials m
	              JOIN course_weeks w ON m.week_id = w.id
	              WHERE w.course_id = $1)`
	_, err := tx.ExecContext(ctx, query, courseID)
	if err != nil {
		return fmt.Errorf("pgAssignmentSubmissionRepository.DeleteByCourse: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
