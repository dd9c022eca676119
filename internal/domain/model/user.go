package model

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLecturer Role = "lecturer"
	RoleStudent  Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLecturer, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           Role      `json:"role"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Exactly one of these is attached, matching Role. Admins carry neither.
	LecturerProfile *LecturerProfile `json:"lecturer_profile,omitempty"`
	StudentProfile  *StudentProfile  `json:"student_profile,omitempty"`
}

type LecturerProfile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Department    string    `json:"department"`
	Bio           string    `json:"bio"`
	Qualification string    `json:"qualification"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type StudentProfile struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	EnrollmentNumber string    `json:"enrollment_number"`
	Semester         int       `json:"semester"`
	Program          string    `json:"program"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StudentInfo is the denormalized student identity attached to submission
// listings for lecturers.
type StudentInfo struct {
	ProfileID        string `json:"id"`
	EnrollmentNumber string `json:"enrollment_number"`
	UserID           string `json:"user_id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
}
