package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

type WeekRepository interface {
	Create(ctx context.Context, w *model.CourseWeek) error
	FindByID(ctx context.Context, id string) (*model.CourseWeek, error)
	// ListByCourse returns weeks ordered by week_number ascending. Duplicate
	// week numbers within a course are accepted as-is.
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseWeek, error)
	Update(ctx context.Context, w *model.CourseWeek) error
	Delete(ctx context.Context, tx *sql.Tx, id string) error
	DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID string) error
}

type pgWeekRepository struct {
	db *sql.DB
}

func NewPgWeekRepository(db *sql.DB) WeekRepository {
	return &pgWeekRepository{db: db}
}

const weekColumns = `id, course_id, week_number, title, description, created_at, updated_at`

func scanWeek(row interface{ Scan(...interface{}) error }) (*model.CourseWeek, error) {
	w := &model.CourseWeek{}
	err := row.Scan(&w.ID, &w.CourseID, &w.WeekNumber, &w.Title, &w.Description, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *pgWeekRepository) Create(ctx context.Context, w *model.CourseWeek) error {
	query := `INSERT INTO course_weeks (id, course_id, week_number, title, description)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, w.ID, w.CourseID, w.WeekNumber, w.Title, w.Description)
	if err != nil {
		return fmt.Errorf("pgWeekRepository.Create: %w", err)
	}
	return nil
}

func (r *pgWeekRepository) FindByID(ctx context.Context, id string) (*model.CourseWeek, error) {
	query := `SELECT ` + weekColumns + ` FROM course_weeks WHERE id = $1`
	w, err := scanWeek(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgWeekRepository.FindByID: %w", err)
	}
	return w, nil
}

func (r *pgWeekRepository) ListByCourse(ctx context.Context, courseID string) ([]model.CourseWeek, error) {
	query := `SELECT ` + weekColumns + ` FROM course_weeks WHERE course_id = $1 ORDER BY week_number ASC`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("pgWeekRepository.ListByCourse: %w", err)
	}
	defer rows.Close()

	var weeks []model.CourseWeek
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("pgWeekRepository.ListByCourse scan: %w", err)
		}
		weeks = append(weeks, *w)
	}
	return weeks, rows.Err()
}

func (r *pgWeekRepository) Update(ctx context.Context, w *model.CourseWeek) error {
	query := `UPDATE course_weeks SET week_number = $2, title = $3, description = $4, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, w.ID, w.WeekNumber, w.Title, w.Description)
	if err != nil {
		return fmt.Errorf("pgWeekRepository.Update: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgWeekRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM course_weeks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgWeekRepository.Delete: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgWeekRepository) DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM course_weeks WHERE course_id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("pgWeekRepository.DeleteByCourse: %w", err)
	}
	return nil
}
