package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

type MaterialRepository interface {
	Create(ctx context.Context, m *model.CourseMaterial) error
	FindByID(ctx context.Context, id string) (*model.CourseMaterial, error)
	ListByWeek(ctx context.Context, weekID string) ([]model.CourseMaterial, error)
	Update(ctx context.Context, m *model.CourseMaterial) error
	Delete(ctx context.Context, tx *sql.Tx, id string) error
	DeleteByWeek(ctx context.Context, tx *sql.Tx, weekID string) error
	DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID string) error
}

type pgMaterialRepository struct {
	db *sql.DB
}

func NewPgMaterialRepository(db *sql.DB) MaterialRepository {
	return &pgMaterialRepository{db: db}
}

const materialColumns = `id, week_id, title, description, material_type, content, created_at, updated_at`

func scanMaterial(row interface{ Scan(...interface{}) error }) (*model.CourseMaterial, error) {
	m := &model.CourseMaterial{}
	err := row.Scan(&m.ID, &m.WeekID, &m.Title, &m.Description, &m.Type, &m.Content, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMaterialRepository) Create(ctx context.Context, m *model.CourseMaterial) error {
	query := `INSERT INTO course_materials (id, week_id, title, description, material_type, content)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.WeekID, m.Title, m.Description, m.Type, m.Content)
	if err != nil {
		return fmt.Errorf("pgMaterialRepository.Create: %w", err)
	}
	return nil
}

func (r *pgMaterialRepository) FindByID(ctx context.Context, id string) (*model.CourseMaterial, error) {
	query := `SELECT ` + materialColumns + ` FROM course_materials WHERE id = $1`
	m, err := scanMaterial(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMaterialRepository.FindByID: %w", err)
	}
	return m, nil
}

func (r *pgMaterialRepository) ListByWeek(ctx context.Context, weekID string) ([]model.CourseMaterial, error) {
	query := `SELECT ` + materialColumns + ` FROM course_materials WHERE week_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, weekID)
	if err != nil {
		return nil, fmt.Errorf("pgMaterialRepository.ListByWeek: %w", err)
	}
	defer rows.Close()

	var materials []model.CourseMaterial
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("pgMaterialRepository.ListByWeek scan: %w", err)
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

func (r *pgMaterialRepository) Update(ctx context.Context, m *model.CourseMaterial) error {
	query := `UPDATE course_materials
	          SET title = $2, description = $3, material_type = $4, content = $5, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, m.ID, m.Title, m.Description, m.Type, m.Content)
	if err != nil {
		return fmt.Errorf("pgMaterialRepository.Update: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgMaterialRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM course_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgMaterialRepository.Delete: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgMaterialRepository) DeleteByWeek(ctx context.Context, tx *sql.Tx, weekID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM course_materials WHERE week_id = $1`, weekID)
	if err != nil {
		return fmt.Errorf("pgMaterialRepository.DeleteByWeek: %w", err)
	}
	return nil
}

func (r *pgMaterialRepository) DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID string) error {
	query := `DELETE FROM course_materials
	          WHERE week_id IN (SELECT id FROM course_weeks WHERE course_id = $1)`
	_, err := tx.ExecContext(ctx, query, courseID)
	if err != nil {
		return fmt.Errorf("pgMaterialRepository.DeleteByCourse: %w", err)
	}
	return nil
}
