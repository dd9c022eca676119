package model

import (
	"fmt"
	"time"

	"github.com/PAA-LMS/lms-backend/internal/common"
)

type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "submitted"
	StatusGraded    SubmissionStatus = "graded"
)

// AssignmentSubmission is a student's answer to an assignment-type course
// material. Exactly one row exists per (student, assignment); resubmission
// overwrites it while the row is still in a student-mutable state.
type AssignmentSubmission struct {
	ID            string           `json:"id"`
	AssignmentID  string           `json:"assignment_id"` // CourseMaterial of type assignment
	StudentID     string           `json:"student_id"`    // StudentProfile
	SubmissionURL string           `json:"submission_url"`
	Status        SubmissionStatus `json:"status"`
	Grade         string           `json:"grade,omitempty"`
	Feedback      string           `json:"feedback,omitempty"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	GradedAt      *time.Time       `json:"graded_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Mutable reports whether the owning student may still overwrite the payload.
func (s *AssignmentSubmission) Mutable() bool {
	return s.Status == StatusSubmitted
}

// Resubmit overwrites the payload and resets the row to the initial state.
// Fails once grading has started; the graded state has no path back.
func (s *AssignmentSubmission) Resubmit(url string, now time.Time) error {
	if !s.Mutable() {
		return fmt.Errorf("submission has already been graded: %w", common.ErrConflict)
	}
	s.SubmissionURL = url
	s.Status = StatusSubmitted
	s.SubmittedAt = now
	return nil
}

// ApplyGrade moves the submission to graded. GradedAt is stamped on the first
// grading only and never cleared; a lecturer may amend grade or feedback on
// an already graded row.
func (s *AssignmentSubmission) ApplyGrade(grade, feedback string, now time.Time) {
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

// AssignmentSubmissionWithStudent joins the submission with student identity
// for lecturer-facing listings.
type AssignmentSubmissionWithStudent struct {
	AssignmentSubmission
	Student StudentInfo `json:"student"`
}
