package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
)

func TestFeeLifecycle(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewFeeService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	section := seedSection(t, db, tc, class.ID, "A")
	student := seedStudent(t, db, tc, section.ID, class.ID, "2024001")

	fee, err := svc.Create(tc, CreateFeeInput{
		StudentID: student.ID, Title: "Tuition June", Amount: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", fee.Status)
	assert.Nil(t, fee.PaidAt)

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := svc.Create(tc, CreateFeeInput{StudentID: student.ID, Title: "Bad", Amount: 0})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		_, err = svc.Create(tc, CreateFeeInput{StudentID: student.ID, Title: "Bad", Amount: -5})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("rejects foreign student", func(t *testing.T) {
		_, err := svc.Create(tc, CreateFeeInput{StudentID: 9999, Title: "Ghost", Amount: 10})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("payment flips status once", func(t *testing.T) {
		paid, err := svc.RecordPayment(tc, fee.ID)
		require.NoError(t, err)
		assert.Equal(t, "paid", paid.Status)

		_, err = svc.RecordPayment(tc, fee.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("summary groups by status", func(t *testing.T) {
		_, err := svc.Create(tc, CreateFeeInput{StudentID: student.ID, Title: "Exam fee", Amount: 300})
		require.NoError(t, err)
		_, err = svc.Create(tc, CreateFeeInput{StudentID: student.ID, Title: "Library", Amount: 200})
		require.NoError(t, err)

		summary, err := svc.PendingSummary(tc)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.PendingCount)
		assert.InDelta(t, 500.0, summary.PendingAmount, 0.001)
		assert.Equal(t, int64(1), summary.PaidCount)
		assert.InDelta(t, 1500.0, summary.PaidAmount, 0.001)
	})
}
