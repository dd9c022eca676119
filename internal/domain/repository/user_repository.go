package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sql.Tx, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, role *model.Role, limit, offset int) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, tx *sql.Tx, id string) error

	CreateLecturerProfile(ctx context.Context, tx *sql.Tx, p *model.LecturerProfile) error
	CreateStudentProfile(ctx context.Context, tx *sql.Tx, p *model.StudentProfile) error
	LecturerProfileByUserID(ctx context.Context, userID string) (*model.LecturerProfile, error)
	LecturerProfileByID(ctx context.Context, id string) (*model.LecturerProfile, error)
	StudentProfileByUserID(ctx context.Context, userID string) (*model.StudentProfile, error)
	StudentProfileByID(ctx context.Context, id string) (*model.StudentProfile, error)
	UpdateLecturerProfile(ctx context.Context, p *model.LecturerProfile) error
	UpdateStudentProfile(ctx context.Context, p *model.StudentProfile) error
	DeleteProfilesByUserID(ctx context.Context, tx *sql.Tx, userID string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, email, username, hashed_password, role, first_name, last_name, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.HashedPassword, &user.Role,
		&user.FirstName, &user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	query := `INSERT INTO users (id, email, username, hashed_password, role, first_name, last_name, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := tx.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.HashedPassword, user.Role,
		user.FirstName, user.LastName, user.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email or username already registered: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) List(ctx context.Context, role *model.Role, limit, offset int) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += fmt.Sprintf(` ORDER BY created_at LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("pgUserRepository.List scan: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *pgUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users
	          SET email = $2, username = $3, hashed_password = $4, first_name = $5, last_name = $6, is_active = $7, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.HashedPassword,
		user.FirstName, user.LastName, user.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email or username already registered: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgUserRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgUserRepository) CreateLecturerProfile(ctx context.Context, tx *sql.Tx, p *model.LecturerProfile) error {
	query := `INSERT INTO lecturer_profiles (id, user_id, department, bio, qualification)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.ExecContext(ctx, query, p.ID, p.UserID, p.Department, p.Bio, p.Qualification)
	if err != nil {
		return fmt.Errorf("pgUserRepository.CreateLecturerProfile: %w", err)
	}
	return nil
}

func (r *pgUserRepository) CreateStudentProfile(ctx context.Context, tx *sql.Tx, p *model.StudentProfile) error {
	query := `INSERT INTO student_profiles (id, user_id, enrollment_number, semester, program)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.ExecContext(ctx, query, p.ID, p.UserID, p.EnrollmentNumber, p.Semester, p.Program)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("enrollment number already registered: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.CreateStudentProfile: %w", err)
	}
	return nil
}

func (r *pgUserRepository) lecturerProfileWhere(ctx context.Context, where, arg string) (*model.LecturerProfile, error) {
	query := `SELECT id, user_id, department, bio, qualification, created_at, updated_at
	          FROM lecturer_profiles WHERE ` + where + ` = $1`
	p := &model.LecturerProfile{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.UserID, &p.Department, &p.Bio, &p.Qualification, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository lecturer profile lookup: %w", err)
	}
	return p, nil
}

func (r *pgUserRepository) LecturerProfileByUserID(ctx context.Context, userID string) (*model.LecturerProfile, error) {
	return r.lecturerProfileWhere(ctx, "user_id", userID)
}

func (r *pgUserRepository) LecturerProfileByID(ctx context.Context, id string) (*model.LecturerProfile, error) {
	return r.lecturerProfileWhere(ctx, "id", id)
}

func (r *pgUserRepository) studentProfileWhere(ctx context.Context, where, arg string) (*model.StudentProfile, error) {
	query := `SELECT id, user_id, enrollment_number, semester, program, created_at, updated_at
	          FROM student_profiles WHERE ` + where + ` = $1`
	p := &model.StudentProfile{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.UserID, &p.EnrollmentNumber, &p.Semester, &p.Program, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository student profile lookup: %w", err)
	}
	return p, nil
}

func (r *pgUserRepository) StudentProfileByUserID(ctx context.Context, userID string) (*model.StudentProfile, error) {
	return r.studentProfileWhere(ctx, "user_id", userID)
}

func (r *pgUserRepository) StudentProfileByID(ctx context.Context, id string) (*model.StudentProfile, error) {
	return r.studentProfileWhere(ctx, "id", id)
}

func (r *pgUserRepository) UpdateLecturerProfile(ctx context.Context, p *model.LecturerProfile) error {
	query := `UPDATE lecturer_profiles
	          SET department = $2, bio = $3, qualification = $4, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Department, p.Bio, p.Qualification)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateLecturerProfile: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgUserRepository) UpdateStudentProfile(ctx context.Context, p *model.StudentProfile) error {
	query := `UPDATE student_profiles
	          SET enrollment_number = $2, semester = $3, program = $4, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.EnrollmentNumber, p.Semester, p.Program)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("enrollment number already registered: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.UpdateStudentProfile: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgUserRepository) DeleteProfilesByUserID(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM lecturer_profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("pgUserRepository.DeleteProfilesByUserID lecturer: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM student_profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("pgUserRepository.DeleteProfilesByUserID student: %w", err)
	}
	return nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
