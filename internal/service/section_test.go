package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
)

func TestSectionCreate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewSectionService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")

	t.Run("defaults capacity to 40", func(t *testing.T) {
		section, err := svc.Create(tc, CreateSectionInput{ClassID: class.ID, Name: "A"})
		require.NoError(t, err)
		assert.Equal(t, 40, section.Capacity)
	})

	t.Run("rejects duplicate name in class", func(t *testing.T) {
		_, err := svc.Create(tc, CreateSectionInput{ClassID: class.ID, Name: "A"})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("same name allowed in another class", func(t *testing.T) {
		other := seedClass(t, db, tc, "Class 6", "2024")
		_, err := svc.Create(tc, CreateSectionInput{ClassID: other.ID, Name: "A"})
		assert.NoError(t, err)
	})

	t.Run("rejects foreign class", func(t *testing.T) {
		other := seedTenant(t, db, "school-b")
		foreign := seedClass(t, db, other, "Class 5", "2024")
		_, err := svc.Create(tc, CreateSectionInput{ClassID: foreign.ID, Name: "B"})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestSectionOccupancy(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewSectionService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")

	full, err := svc.Create(tc, CreateSectionInput{ClassID: class.ID, Name: "A", Capacity: 2})
	require.NoError(t, err)
	open, err := svc.Create(tc, CreateSectionInput{ClassID: class.ID, Name: "B", Capacity: 2})
	require.NoError(t, err)

	seedStudent(t, db, tc, full.ID, class.ID, "2024001")
	seedStudent(t, db, tc, full.ID, class.ID, "2024002")
	seedStudent(t, db, tc, open.ID, class.ID, "2024001")

	rows, err := svc.ListWithOccupancy(tc, class.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]SectionOccupancy{}
	for _, row := range rows {
		byName[row.Section.Name] = row
	}
	assert.Equal(t, 2, byName["A"].Enrolled)
	assert.False(t, byName["A"].HasVacancy)
	assert.Equal(t, 1, byName["B"].Enrolled)
	assert.True(t, byName["B"].HasVacancy)
}

func TestSectionUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewSectionService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")

	a, err := svc.Create(tc, CreateSectionInput{ClassID: class.ID, Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(tc, CreateSectionInput{ClassID: class.ID, Name: "B"})
	require.NoError(t, err)

	t.Run("rename onto an existing name conflicts", func(t *testing.T) {
		_, err := svc.Update(tc, b.ID, UpdateSectionInput{Name: ptr("A")})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("delete blocked while students enrolled", func(t *testing.T) {
		seedStudent(t, db, tc, a.ID, class.ID, "2024001")
		err := svc.Delete(tc, a.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
	})

	t.Run("empty section deletes", func(t *testing.T) {
		assert.NoError(t, svc.Delete(tc, b.ID))
	})
}
