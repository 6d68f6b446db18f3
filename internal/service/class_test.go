package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
	"school-service/internal/model"
)

func TestClassCreate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewClassService(db)

	t.Run("creates class", func(t *testing.T) {
		class, err := svc.Create(tc, CreateClassInput{
			Name: "Class 5", BranchID: tc.BranchID, AcademicYear: "2024",
		})
		require.NoError(t, err)
		assert.Equal(t, "Class 5", class.Name)
		assert.Equal(t, tc.AamarID, class.AamarID)
	})

	t.Run("rejects duplicate tuple", func(t *testing.T) {
		_, err := svc.Create(tc, CreateClassInput{
			Name: "Class 5", BranchID: tc.BranchID, AcademicYear: "2024",
		})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("same name allowed in another year", func(t *testing.T) {
		_, err := svc.Create(tc, CreateClassInput{
			Name: "Class 5", BranchID: tc.BranchID, AcademicYear: "2025",
		})
		require.NoError(t, err)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := svc.Create(tc, CreateClassInput{Name: " ", BranchID: tc.BranchID, AcademicYear: "2024"})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("rejects foreign branch", func(t *testing.T) {
		other := seedTenant(t, db, "school-b")
		_, err := svc.Create(tc, CreateClassInput{
			Name: "Class 6", BranchID: other.BranchID, AcademicYear: "2024",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestClassTenantIsolation(t *testing.T) {
	db := newTestDB(t)
	a := seedTenant(t, db, "school-a")
	b := seedTenant(t, db, "school-b")
	svc := NewClassService(db)

	class, err := svc.Create(a, CreateClassInput{Name: "Class 1", BranchID: a.BranchID, AcademicYear: "2024"})
	require.NoError(t, err)

	_, err = svc.GetByID(b, class.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	classes, err := svc.List(b)
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestClassHomeroomCap(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewClassService(db)
	teacher := seedTeacher(t, db, tc)

	for i, name := range []string{"Class 1", "Class 2", "Class 3"} {
		_, err := svc.Create(tc, CreateClassInput{
			Name: name, BranchID: tc.BranchID, AcademicYear: "2024", TeacherID: &teacher.ID,
		})
		require.NoError(t, err, "class %d", i+1)
	}

	_, err := svc.Create(tc, CreateClassInput{
		Name: "Class 4", BranchID: tc.BranchID, AcademicYear: "2024", TeacherID: &teacher.ID,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

	t.Run("re-assigning the same class does not count itself", func(t *testing.T) {
		classes, err := svc.List(tc)
		require.NoError(t, err)
		require.NotEmpty(t, classes)
		_, err = svc.Update(tc, classes[0].ID, UpdateClassInput{TeacherID: &teacher.ID})
		assert.NoError(t, err)
	})

	t.Run("excluded from available teachers", func(t *testing.T) {
		available, err := svc.ListAvailableTeachers(tc)
		require.NoError(t, err)
		for _, candidate := range available {
			assert.NotEqual(t, teacher.ID, candidate.ID)
		}
	})
}

func TestClassDeleteGuards(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewClassService(db)

	t.Run("blocked while students enrolled", func(t *testing.T) {
		class := seedClass(t, db, tc, "Class 7", "2024")
		section := seedSection(t, db, tc, class.ID, "A")
		seedStudent(t, db, tc, section.ID, class.ID, "2024001")

		err := svc.Delete(tc, class.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
	})

	t.Run("blocked while subjects exist", func(t *testing.T) {
		class := seedClass(t, db, tc, "Class 8", "2024")
		seedSubject(t, db, tc, class.ID, "Math", "MATH")

		err := svc.Delete(tc, class.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
	})

	t.Run("empty sections removed with the class", func(t *testing.T) {
		class := seedClass(t, db, tc, "Class 9", "2024")
		section := seedSection(t, db, tc, class.ID, "A")

		require.NoError(t, svc.Delete(tc, class.ID))

		var count int64
		require.NoError(t, db.Model(&model.Section{}).Where("id = ?", section.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestClassStats(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewClassService(db)
	teacher := seedTeacher(t, db, tc)

	c1, err := svc.Create(tc, CreateClassInput{Name: "Class 1", BranchID: tc.BranchID, AcademicYear: "2024", TeacherID: &teacher.ID})
	require.NoError(t, err)
	c2, err := svc.Create(tc, CreateClassInput{Name: "Class 2", BranchID: tc.BranchID, AcademicYear: "2024"})
	require.NoError(t, err)
	c3, err := svc.Create(tc, CreateClassInput{Name: "Class 3", BranchID: tc.BranchID, AcademicYear: "2024"})
	require.NoError(t, err)

	s1 := seedSection(t, db, tc, c1.ID, "A")
	s2 := seedSection(t, db, tc, c2.ID, "A")
	for i := 0; i < 35; i++ {
		seedStudent(t, db, tc, s1.ID, c1.ID, rollFor(2024, i+1))
	}
	for i := 0; i < 30; i++ {
		seedStudent(t, db, tc, s2.ID, c2.ID, rollFor(2024, i+1))
	}
	_ = c3

	stats, err := svc.Stats(tc)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalClasses)
	assert.Equal(t, int64(65), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.ClassesWithTeachers)
	assert.Equal(t, int64(2), stats.ClassesWithoutTeachers)
	// 65/3 = 21.67, rounded
	assert.Equal(t, 22, stats.AverageStudentsPerClass)
}

func rollFor(year, n int) string {
	return fmt.Sprintf("%d%03d", year, n)
}

func TestClassAssignStudentsNotImplemented(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewClassService(db)
	class := seedClass(t, db, tc, "Class 10", "2024")

	err := svc.AssignStudents(tc, class.ID, []uint{1, 2})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotImplemented))
}
