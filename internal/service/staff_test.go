package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
	"school-service/internal/model"
)

func TestStaffLifecycle(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewStaffService(db)

	joined := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	staff, err := svc.Create(tc, CreateStaffInput{
		Person: PersonInput{
			FirstName: "Rana", LastName: "Karim",
			Email: "rana@example.com", Password: "secret123",
		},
		Designation: "Accountant",
		Department:  "Finance",
		Salary:      32000,
		JoiningDate: &joined,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, staff.User.Role)
	assert.Equal(t, "Accountant", staff.Designation)

	t.Run("update changes employment fields only when supplied", func(t *testing.T) {
		updated, err := svc.Update(tc, staff.ID, UpdateStaffInput{
			Person: PersonInput{
				FirstName: "Rana", LastName: "Karim",
				Email: "rana@example.com",
			},
			Salary: ptr(35000.0),
		})
		require.NoError(t, err)
		assert.InDelta(t, 35000.0, updated.Salary, 0.001)
		assert.Equal(t, "Finance", updated.Department)
	})

	t.Run("search matches designation and department", func(t *testing.T) {
		found, err := svc.Search(tc, "finance")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "rana@example.com", found[0].User.Email)
	})

	t.Run("delete removes the identity too", func(t *testing.T) {
		require.NoError(t, svc.Delete(tc, staff.ID))
		_, err := svc.GetByID(tc, staff.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

		var users int64
		require.NoError(t, db.Model(&model.User{}).
			Where("id = ?", staff.UserID).Count(&users).Error)
		assert.Zero(t, users)
	})
}
