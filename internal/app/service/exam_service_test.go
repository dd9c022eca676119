package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

func seedExam(t *testing.T, env *testEnv, start, end time.Time) (authz.Principal, *model.Exam) {
	t.Helper()
	ctx := context.Background()

	lecturer := env.addLecturer("examiner")
	course, err := env.catalog.CreateCourse(ctx, lecturer, CreateCourseRequest{Title: "Algorithms"})
	require.NoError(t, err)
	exam, err := env.exam.Create(ctx, lecturer, CreateExamRequest{
		CourseID: course.ID, Title: "Final", StartTime: start, EndTime: end,
	})
	require.NoError(t, err)
	return lecturer, exam
}

func TestExamSubmitWindowBoundariesInclusive(t *testing.T) {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	start := base
	end := base.Add(2 * time.Hour)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"before start", start.Add(-time.Second), common.ErrConflict},
		{"exactly at start", start, nil},
		{"mid window", start.Add(time.Hour), nil},
		{"exactly at end", end, nil},
		{"after end", end.Add(time.Second), common.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, exam := seedExam(t, env, start, end)
			student := env.addStudent("student1")
			env.exam.now = func() time.Time { return tt.now }

			_, err := env.exam.Submit(context.Background(), student, exam.ID, SubmitExamRequest{
				Answers: map[string]string{"q1": "42"},
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestExamSubmitOnlyOnce(t *testing.T) {
	env := newTestEnv()
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	_, exam := seedExam(t, env, start, end)
	student := env.addStudent("student1")
	ctx := context.Background()

	_, err := env.exam.Submit(ctx, student, exam.ID, SubmitExamRequest{Answers: map[string]string{"q1": "a"}})
	require.NoError(t, err)

	_, err = env.exam.Submit(ctx, student, exam.ID, SubmitExamRequest{Answers: map[string]string{"q1": "b"}})
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Len(t, env.exams.submissions, 1)
}

func TestExamSubmitRejectedWhenClosed(t *testing.T) {
	env := newTestEnv()
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	lecturer, exam := seedExam(t, env, start, end)
	student := env.addStudent("student1")
	ctx := context.Background()

	closed := model.ExamClosed
	_, err := env.exam.Update(ctx, lecturer, exam.ID, UpdateExamRequest{Status: &closed})
	require.NoError(t, err)

	_, err = env.exam.Submit(ctx, student, exam.ID, SubmitExamRequest{Answers: map[string]string{"q1": "a"}})
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestExamSubmissionStatus(t *testing.T) {
	env := newTestEnv()
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	lecturer, exam := seedExam(t, env, start, end)
	student := env.addStudent("student1")
	ctx := context.Background()

	status, err := env.exam.SubmissionStatus(ctx, student, exam.ID)
	require.NoError(t, err)
	assert.False(t, status.Submitted)
	assert.True(t, status.WindowOpen)

	_, err = env.exam.Submit(ctx, student, exam.ID, SubmitExamRequest{Answers: map[string]string{"q1": "a"}})
	require.NoError(t, err)

	status, err = env.exam.SubmissionStatus(ctx, student, exam.ID)
	require.NoError(t, err)
	assert.True(t, status.Submitted)
	assert.False(t, status.Graded)

	subs, err := env.exam.ListSubmissions(ctx, lecturer, exam.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	_, err = env.exam.GradeSubmission(ctx, lecturer, subs[0].ID, GradeRequest{Grade: "A"})
	require.NoError(t, err)

	status, err = env.exam.SubmissionStatus(ctx, student, exam.ID)
	require.NoError(t, err)
	assert.True(t, status.Graded)
	assert.Equal(t, "A", status.Grade)
}

func TestExamManagementRequiresOwnership(t *testing.T) {
	env := newTestEnv()
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	_, exam := seedExam(t, env, start, end)
	intruder := env.addLecturer("intruder")
	ctx := context.Background()

	title := "Tampered"
	_, err := env.exam.Update(ctx, intruder, exam.ID, UpdateExamRequest{Title: &title})
	require.ErrorIs(t, err, common.ErrForbidden)

	err = env.exam.Delete(ctx, intruder, exam.ID)
	require.ErrorIs(t, err, common.ErrForbidden)

	_, err = env.exam.ListSubmissions(ctx, intruder, exam.ID)
	require.ErrorIs(t, err, common.ErrForbidden)
}

func TestExamDeleteRemovesSubmissions(t *testing.T) {
	env := newTestEnv()
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	lecturer, exam := seedExam(t, env, start, end)
	student := env.addStudent("student1")
	ctx := context.Background()

	_, err := env.exam.Submit(ctx, student, exam.ID, SubmitExamRequest{Answers: map[string]string{"q1": "a"}})
	require.NoError(t, err)

	require.NoError(t, env.exam.Delete(ctx, lecturer, exam.ID))
	assert.Empty(t, env.exams.exams)
	assert.Empty(t, env.exams.submissions)
}
