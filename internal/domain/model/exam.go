package model

import "time"

type ExamStatus string

const (
	ExamActive ExamStatus = "active"
	ExamClosed ExamStatus = "closed"
)

func (s ExamStatus) Valid() bool {
	return s == ExamActive || s == ExamClosed
}

// Exam belongs to a course by foreign key and is open for submission inside
// the [StartTime, EndTime] window, both boundaries inclusive.
type Exam struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FileURL     string     `json:"file_url,omitempty"` // locator from the file store
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Status      ExamStatus `json:"status"`
	CreatedBy   string     `json:"created_by"` // User
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e *Exam) WindowOpen(now time.Time) bool {
	return !now.Before(e.StartTime) && !now.After(e.EndTime)
}

// ExamSubmission is the single allowed submission per (student, exam).
// There is no resubmission path for exams.
type ExamSubmission struct {
	ID          string            `json:"id"`
	ExamID      string            `json:"exam_id"`
	StudentID   string            `json:"student_id"` // StudentProfile
	Answers     map[string]string `json:"answers"`
	FileURL     string            `json:"file_url,omitempty"`
	Status      SubmissionStatus  `json:"status"`
	Grade       string            `json:"grade,omitempty"`
	Feedback    string            `json:"feedback,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
	GradedAt    *time.Time        `json:"graded_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (s *ExamSubmission) ApplyGrade(grade, feedback string, now time.Time) {
	if grade != "" {
		s.Grade = grade
	}
	if feedback != "" {
		s.Feedback = feedback
	}
	if s.Grade != "" || s.Feedback != "" {
		s.Status = StatusGraded
		if s.GradedAt == nil {
			t := now
			s.GradedAt = &t
		}
	}
}

type ExamSubmissionWithStudent struct {
	ExamSubmission
	Student StudentInfo `json:"student"`
}
