package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
	"school-service/internal/model"
)

func TestBranchCreate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewBranchService(db)

	branch, err := svc.Create(tc, CreateBranchInput{Name: "East Campus", Code: "east"})
	require.NoError(t, err)
	assert.Equal(t, "EAST", branch.Code)
	assert.Equal(t, tc.SchoolID, branch.SchoolID)

	t.Run("duplicate code conflicts regardless of case", func(t *testing.T) {
		_, err := svc.Create(tc, CreateBranchInput{Name: "Another", Code: "East"})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("same code allowed in another tenant", func(t *testing.T) {
		other := seedTenant(t, db, "school-b")
		_, err := svc.Create(other, CreateBranchInput{Name: "East Campus", Code: "EAST"})
		assert.NoError(t, err)
	})

	t.Run("requires name and code", func(t *testing.T) {
		_, err := svc.Create(tc, CreateBranchInput{Name: "  ", Code: "X"})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		_, err = svc.Create(tc, CreateBranchInput{Name: "X", Code: ""})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestBranchUpdate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewBranchService(db)

	east, err := svc.Create(tc, CreateBranchInput{Name: "East Campus", Code: "EAST"})
	require.NoError(t, err)
	west, err := svc.Create(tc, CreateBranchInput{Name: "West Campus", Code: "WEST"})
	require.NoError(t, err)

	t.Run("rename onto existing code conflicts", func(t *testing.T) {
		_, err := svc.Update(tc, west.ID, UpdateBranchInput{Code: ptr("east")})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("keeping its own code is not a conflict", func(t *testing.T) {
		updated, err := svc.Update(tc, east.ID, UpdateBranchInput{
			Code: ptr("east"), Phone: ptr("555-0101"),
		})
		require.NoError(t, err)
		assert.Equal(t, "EAST", updated.Code)
		assert.Equal(t, "555-0101", updated.Phone)
	})
}

func TestBranchDeleteGuards(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewBranchService(db)

	branch, err := svc.Create(tc, CreateBranchInput{Name: "East Campus", Code: "EAST"})
	require.NoError(t, err)

	t.Run("blocked while classes are attached", func(t *testing.T) {
		class := model.Class{
			AamarID: tc.AamarID, Name: "Class 5",
			BranchID: branch.ID, AcademicYear: "2024",
		}
		require.NoError(t, db.Create(&class).Error)

		err := svc.Delete(tc, branch.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

		require.NoError(t, db.Delete(&class).Error)
	})

	t.Run("blocked while users are attached", func(t *testing.T) {
		scoped := tc
		scoped.BranchID = branch.ID
		user := seedUser(t, db, scoped, model.RoleStaff)

		err := svc.Delete(tc, branch.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

		require.NoError(t, db.Delete(&user).Error)
	})

	t.Run("empty branch deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(tc, branch.ID))
		_, err := svc.GetByID(tc, branch.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("foreign branch is invisible", func(t *testing.T) {
		other := seedTenant(t, db, "school-b")
		err := svc.Delete(other, tc.BranchID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
