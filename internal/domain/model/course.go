package model

import "time"

type Course struct {
	ID          string    `json:"id"`
	LecturerID  string    `json:"lecturer_id"` // owning LecturerProfile
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CourseWeek struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	WeekNumber  int       `json:"week_number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MaterialType string

const (
	MaterialLink       MaterialType = "link"
	MaterialDriveURL   MaterialType = "drive_url"
	MaterialAssignment MaterialType = "assignment"
)

func (t MaterialType) Valid() bool {
	switch t {
	case MaterialLink, MaterialDriveURL, MaterialAssignment:
		return true
	}
	return false
}

type CourseMaterial struct {
	ID          string       `json:"id"`
	WeekID      string       `json:"week_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        MaterialType `json:"material_type"`
	Content     string       `json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
