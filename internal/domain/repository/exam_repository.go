package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

type ExamRepository interface {
	CreateExam(ctx context.Context, e *model.Exam) error
	FindExamByID(ctx context.Context, id string) (*model.Exam, error)
	ListExamsByCourse(ctx context.Context, courseID string) ([]model.Exam, error)
	UpdateExam(ctx context.Context, e *model.Exam) error
	DeleteExam(ctx context.Context, tx *sql.Tx, id string) error
	DeleteExamsByCourse(ctx context.Context, tx *sql.Tx, courseID string) error

	CreateSubmission(ctx context.Context, tx *sql.Tx, s *model.ExamSubmission) error
	UpdateSubmission(ctx context.Context, tx *sql.Tx, s *model.ExamSubmission) error
	FindSubmissionByID(ctx context.Context, id string) (*model.ExamSubmission, error)
	FindSubmissionByExamAndStudent(ctx context.Context, examID, studentID string) (*model.ExamSubmission, error)
	ListSubmissionsByExam(ctx context.Context, examID string) ([]model.ExamSubmissionWithStudent, error)
	DeleteSubmissionsByExam(ctx context.Context, tx *sql.Tx, examID string) error
	DeleteSubmissionsByCourse(ctx context.Context, tx *sql.Tx, courseID string) error
}

type pgExamRepository struct {
	db *sql.DB
}

func NewPgExamRepository(db *sql.DB) ExamRepository {
	return &pgExamRepository{db: db}
}

const examColumns = `id, course_id, title, description, file_url, start_time, end_time, status, created_by, created_at, updated_at`

func scanExam(row interface{ Scan(...interface{}) error }) (*model.Exam, error) {
	e := &model.Exam{}
	var fileURL sql.NullString
	err := row.Scan(
		&e.ID, &e.CourseID, &e.Title, &e.Description, &fileURL,
		&e.StartTime, &e.EndTime, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.FileURL = fileURL.String
	return e, nil
}

func (r *pgExamRepository) CreateExam(ctx context.Context, e *model.Exam) error {
	query := `INSERT INTO exams (id, course_id, title, description, file_url, start_time, end_time, status, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.CourseID, e.Title, e.Description, nullString(e.FileURL),
		e.StartTime, e.EndTime, e.Status, e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("pgExamRepository.CreateExam: %w", err)
	}
	return nil
}

func (r *pgExamRepository) FindExamByID(ctx context.Context, id string) (*model.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE id = $1`
	e, err := scanExam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgExamRepository.FindExamByID: %w", err)
	}
	return e, nil
}

func (r *pgExamRepository) ListExamsByCourse(ctx context.Context, courseID string) ([]model.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE course_id = $1 ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("pgExamRepository.ListExamsByCourse: %w", err)
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("pgExamRepository.ListExamsByCourse scan: %w", err)
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

func (r *pgExamRepository) UpdateExam(ctx context.Context, e *model.Exam) error {
	query := `UPDATE exams
	          SET title = $2, description = $3, file_url = $4, start_time = $5, end_time = $6, status = $7, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, nullString(e.FileURL), e.StartTime, e.EndTime, e.Status,
	)
	if err != nil {
		return fmt.Errorf("pgExamRepository.UpdateExam: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgExamRepository) DeleteExam(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgExamRepository.DeleteExam: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgExamRepository) DeleteExamsByCourse(ctx context.Context, tx *sql.Tx, courseID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM exams WHERE course_id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("pgExamRepository.DeleteExamsByCourse: %w", err)
	}
	return nil
}

const examSubColumns = `id, exam_id, student_id, answers, file_url, status, grade, feedback, submitted_at, graded_at, created_at, updated_at`

func scanExamSub(row interface{ Scan(...interface{}) error }) (*model.ExamSubmission, error) {
	s := &model.ExamSubmission{}
	var answers []byte
	var fileURL, grade, feedback sql.NullString
	err := row.Scan(
		&s.ID, &s.ExamID, &s.StudentID, &answers, &fileURL, &s.Status,
		&grade, &feedback, &s.SubmittedAt, &s.GradedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &s.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	s.FileURL = fileURL.String
	s.Grade = grade.String
	s.Feedback = feedback.String
	return s, nil
}

func (r *pgExamRepository) CreateSubmission(ctx context.Context, tx *sql.Tx, s *model.ExamSubmission) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	query := `INSERT INTO exam_submissions (id, exam_id, student_id, answers, file_url, status, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.ExecContext(ctx, query, s.ID, s.ExamID, s.StudentID, answers, nullString(s.FileURL), s.Status, s.SubmittedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("exam already submitted: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgExamRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgExamRepository) UpdateSubmission(ctx context.Context, tx *sql.Tx, s *model.ExamSubmission) error {
	query := `UPDATE exam_submissions
	          SET status = $2, grade = $3, feedback = $4, graded_at = $5, updated_at = now()
	          WHERE id = $1`
	res, err := tx.ExecContext(ctx, query, s.ID, s.Status, nullString(s.Grade), nullString(s.Feedback), s.GradedAt)
	if err != nil {
		return fmt.Errorf("pgExamRepository.UpdateSubmission: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgExamRepository) FindSubmissionByID(ctx context.Context, id string) (*model.ExamSubmission, error) {
	query := `SELECT ` + examSubColumns + ` FROM exam_submissions WHERE id = $1`
	s, err := scanExamSub(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgExamRepository.FindSubmissionByID: %w", err)
	}
	return s, nil
}

func (r *pgExamRepository) FindSubmissionByExamAndStudent(ctx context.Context, examID, studentID string) (*model.ExamSubmission, error) {
	query := `SELECT ` + examSubColumns + ` FROM exam_submissions WHERE exam_id = $1 AND student_id = $2`
	s, err := scanExamSub(r.db.QueryRowContext(ctx, query, examID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgExamRepository.FindSubmissionByExamAndStudent: %w", err)
	}
	return s, nil
}

func (r *pgExamRepository) ListSubmissionsByExam(ctx context.Context, examID string) ([]model.ExamSubmissionWithStudent, error) {
	query := `SELECT s.id, s.exam_id, s.student_id, s.answers, s.file_url, s.status, s.grade, s.feedback,
	                 s.submitted_at, s.graded_at, s.created_at, s.updated_at,
	                 sp.id, sp.enrollment_number, u.id, u.first_name, u.last_name, u.email
	          FROM exam_submissions s
	          JOIN student_profiles sp ON s.student_id = sp.id
	          JOIN users u ON sp.user_id = u.id
	          WHERE s.exam_id = $1
	          ORDER BY s.submitted_at`
	rows, err := r.db.QueryContext(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("pgExamRepository.ListSubmissionsByExam: %w", err)
	}
	defer rows.Close()

	var out []model.ExamSubmissionWithStudent
	for rows.Next() {
		var item model.ExamSubmissionWithStudent
		var answers []byte
		var fileURL, grade, feedback sql.NullString
		err := rows.Scan(
			&item.ID, &item.ExamID, &item.StudentID, &answers, &fileURL, &item.Status,
			&grade, &feedback, &item.SubmittedAt, &item.GradedAt, &item.CreatedAt, &item.UpdatedAt,
			&item.Student.ProfileID, &item.Student.EnrollmentNumber,
			&item.Student.UserID, &item.Student.FirstName, &item.Student.LastName, &item.Student.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("pgExamRepository.ListSubmissionsByExam scan: %w", err)
		}
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &item.Answers); err != nil {
				return nil, fmt.Errorf("decode answers: %w", err)
			}
		}
		item.FileURL = fileURL.String
		item.Grade = grade.String
		item.Feedback = feedback.String
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *pgExamRepository) DeleteSubmissionsByExam(ctx context.Context, tx *sql.Tx, examID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM exam_submissions WHERE exam_id = $1`, examID)
	if err != nil {
		return fmt.Errorf("pgExamRepository.DeleteSubmissionsByExam: %w", err)
	}
	return nil
}

func (r *pgExamRepository) DeleteSubmissionsByCourse(ctx context.Context, tx *sql.Tx, courseID string) error {
	query := `DELETE FROM exam_submissions
	          WHERE exam_id IN (SELECT id FROM exams WHERE course_id = $1)`
	_, err := tx.ExecContext(ctx, query, courseID)
	if err != nil {
		return fmt.Errorf("pgExamRepository.DeleteSubmissionsByCourse: %w", err)
	}
	return nil
}
