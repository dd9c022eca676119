package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, limit, offset int) ([]model.Course, error)
	ListByLecturer(ctx context.Context, lecturerProfileID string) ([]model.Course, error)
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, tx *sql.Tx, id string) error
}

type pgCourseRepository struct {
	db *sql.DB
}

func NewPgCourseRepository(db *sql.DB) CourseRepository {
	return &pgCourseRepository{db: db}
}

const courseColumns = `id, lecturer_id, title, slug, description, created_at, updated_at`

func scanCourse(row interface{ Scan(...interface{}) error }) (*model.Course, error) {
	c := &model.Course{}
	err := row.Scan(&c.ID, &c.LecturerID, &c.Title, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgCourseRepository) Create(ctx context.Context, c *model.Course) error {
	query := `INSERT INTO courses (id, lecturer_id, title, slug, description)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.LecturerID, c.Title, c.Slug, c.Description)
	if err != nil {
		return fmt.Errorf("pgCourseRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	c, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCourseRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgCourseRepository) List(ctx context.Context, limit, offset int) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at LIMIT $1 OFFSET $2`
	return r.queryCourses(ctx, query, limit, offset)
}

func (r *pgCourseRepository) ListByLecturer(ctx context.Context, lecturerProfileID string) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE lecturer_id = $1 ORDER BY created_at`
	return r.queryCourses(ctx, query, lecturerProfileID)
}

func (r *pgCourseRepository) queryCourses(ctx context.Context, query string, args ...interface{}) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgCourseRepository query: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("pgCourseRepository scan: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *pgCourseRepository) Update(ctx context.Context, c *model.Course) error {
	query := `UPDATE courses SET title = $2, slug = $3, description = $4, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Slug, c.Description)
	if err != nil {
		return fmt.Errorf("pgCourseRepository.Update: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgCourseRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCourseRepository.Delete: %w", err)
	}
	return requireRowAffected(res)
}
