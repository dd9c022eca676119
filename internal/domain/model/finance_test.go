package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PAA-LMS/lms-backend/internal/common"
)

func TestPaymentStudentUpdate(t *testing.T) {
	sub := &PaymentSubmission{
		Status: PaymentPending, PaymentSlipURL: "https://bank.example.com/v1", AmountPaid: "100",
	}

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sub.StudentUpdate("https://bank.example.com/v2", "", "paid late", &date))
	assert.Equal(t, "https://bank.example.com/v2", sub.PaymentSlipURL)
	assert.Equal(t, "100", sub.AmountPaid) // empty field left untouched
	assert.Equal(t, date, sub.PaymentDate)

	require.NoError(t, sub.Decide(PaymentVerified, "", time.Now()))
	err := sub.StudentUpdate("https://bank.example.com/v3", "", "", nil)
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestPaymentDecide(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	sub := &PaymentSubmission{Status: PaymentPending}

	err := sub.Decide(PaymentStatus("bogus"), "", now)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Nil(t, sub.VerifiedAt)

	require.NoError(t, sub.Decide(PaymentRejected, "unreadable", now))
	assert.Equal(t, PaymentRejected, sub.Status)
	require.NotNil(t, sub.VerifiedAt)
	assert.Equal(t, now, *sub.VerifiedAt)

	// Correcting the decision keeps the first stamp.
	later := now.Add(time.Hour)
	require.NoError(t, sub.Decide(PaymentVerified, "resolved", later))
	assert.Equal(t, PaymentVerified, sub.Status)
	assert.Equal(t, now, *sub.VerifiedAt)

	// Moving back to pending does not clear the stamp either.
	require.NoError(t, sub.Decide(PaymentPending, "", later))
	assert.Equal(t, now, *sub.VerifiedAt)
}
