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

func seedAnnouncement(t *testing.T, env *testEnv) (authz.Principal, *model.PaymentAnnouncement) {
	t.Helper()
	lecturer := env.addLecturer("bursar")
	a, err := env.finance.CreateAnnouncement(context.Background(), lecturer, CreateAnnouncementRequest{
		Title: "Semester Fee", Amount: "1500.00", PaymentDetails: "Acct 001-234",
		DueDate: time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return lecturer, a
}

func submitPayment(t *testing.T, env *testEnv, student authz.Principal, announcementID string) *model.PaymentSubmission {
	t.Helper()
	sub, err := env.finance.SubmitPayment(context.Background(), student, SubmitPaymentRequest{
		AnnouncementID: announcementID,
		PaymentSlipURL: "https://bank.example.com/slip1",
		AmountPaid:     "1500.00",
		PaymentDate:    time.Now(),
	})
	require.NoError(t, err)
	return sub
}

func TestPaymentDuplicateSubmissionConflicts(t *testing.T) {
	env := newTestEnv()
	_, a := seedAnnouncement(t, env)
	student := env.addStudent("student1")
	ctx := context.Background()

	submitPayment(t, env, student, a.ID)

	_, err := env.finance.SubmitPayment(ctx, student, SubmitPaymentRequest{
		AnnouncementID: a.ID,
		PaymentSlipURL: "https://bank.example.com/slip2",
		AmountPaid:     "1500.00",
		PaymentDate:    time.Now(),
	})
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Len(t, env.payments.submissions, 1)
}

func TestPaymentStudentUpdatePendingOnly(t *testing.T) {
	env := newTestEnv()
	lecturer, a := seedAnnouncement(t, env)
	student := env.addStudent("student1")
	ctx := context.Background()

	sub := submitPayment(t, env, student, a.ID)

	newSlip := "https://bank.example.com/slip-corrected"
	updated, err := env.finance.UpdatePayment(ctx, student, sub.ID, UpdatePaymentRequest{PaymentSlipURL: newSlip})
	require.NoError(t, err)
	assert.Equal(t, newSlip, updated.PaymentSlipURL)
	assert.Equal(t, model.PaymentPending, updated.Status)

	_, err = env.finance.Verify(ctx, lecturer, sub.ID, VerifyPaymentRequest{Status: model.PaymentVerified})
	require.NoError(t, err)

	_, err = env.finance.UpdatePayment(ctx, student, sub.ID, UpdatePaymentRequest{PaymentSlipURL: "https://bank.example.com/too-late"})
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestPaymentUpdateOtherStudentsSubmissionForbidden(t *testing.T) {
	env := newTestEnv()
	_, a := seedAnnouncement(t, env)
	owner := env.addStudent("owner")
	other := env.addStudent("other")
	ctx := context.Background()

	sub := submitPayment(t, env, owner, a.ID)

	_, err := env.finance.UpdatePayment(ctx, other, sub.ID, UpdatePaymentRequest{AmountPaid: "0.01"})
	require.ErrorIs(t, err, common.ErrForbidden)
}

func TestPaymentVerifyStampsVerifiedAtOnce(t *testing.T) {
	env := newTestEnv()
	lecturer, a := seedAnnouncement(t, env)
	student := env.addStudent("student1")
	ctx := context.Background()

	sub := submitPayment(t, env, student, a.ID)

	rejected, err := env.finance.Verify(ctx, lecturer, sub.ID, VerifyPaymentRequest{
		Status: model.PaymentRejected, VerificationNotes: "slip unreadable",
	})
	require.NoError(t, err)
	require.NotNil(t, rejected.VerifiedAt)
	firstStamp := *rejected.VerifiedAt

	// Re-deciding corrects the status but keeps the original stamp.
	verified, err := env.finance.Verify(ctx, lecturer, sub.ID, VerifyPaymentRequest{Status: model.PaymentVerified})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentVerified, verified.Status)
	require.NotNil(t, verified.VerifiedAt)
	assert.Equal(t, firstStamp, *verified.VerifiedAt)
}

func TestPaymentVerifyRoleGate(t *testing.T) {
	env := newTestEnv()
	_, a := seedAnnouncement(t, env)
	student := env.addStudent("student1")
	admin := env.addAdmin("root")
	ctx := context.Background()

	sub := submitPayment(t, env, student, a.ID)

	// Students cannot verify, not even their own.
	_, err := env.finance.Verify(ctx, student, sub.ID, VerifyPaymentRequest{Status: model.PaymentVerified})
	require.ErrorIs(t, err, common.ErrForbidden)

	// Admins can.
	_, err = env.finance.Verify(ctx, admin, sub.ID, VerifyPaymentRequest{Status: model.PaymentVerified})
	require.NoError(t, err)
}

func TestAnnouncementDeleteCascadesToSubmissions(t *testing.T) {
	env := newTestEnv()
	lecturer, a := seedAnnouncement(t, env)
	student := env.addStudent("student1")
	ctx := context.Background()

	submitPayment(t, env, student, a.ID)

	require.NoError(t, env.finance.DeleteAnnouncement(ctx, lecturer, a.ID))
	assert.Empty(t, env.payments.announcements)
	assert.Empty(t, env.payments.submissions)
}

func TestPaymentMySubmissionsScopedToStudent(t *testing.T) {
	env := newTestEnv()
	_, a := seedAnnouncement(t, env)
	s1 := env.addStudent("student1")
	s2 := env.addStudent("student2")
	ctx := context.Background()

	submitPayment(t, env, s1, a.ID)
	submitPayment(t, env, s2, a.ID)

	mine, err := env.finance.MySubmissions(ctx, s1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, env.studentProfileID(s1), mine[0].StudentID)
}
