package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
	"school-service/internal/model"
)

func TestTeacherCreate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewTeacherService(db)

	teacher, err := svc.Create(tc, CreateTeacherInput{
		Person: PersonInput{
			FirstName: "Jane", LastName: "Doe",
			Email: "jane@example.com", Password: "secret123",
		},
		Qualification:  "MSc",
		Specialization: "Physics",
		Subjects:       []string{"Physics", "Math"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Physics,Math", teacher.Subjects)

	var user model.User
	require.NoError(t, db.First(&user, teacher.UserID).Error)
	assert.Equal(t, model.RoleTeacher, user.Role)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.Create(tc, CreateTeacherInput{
			Person: PersonInput{
				FirstName: "Other", LastName: "Teacher",
				Email: "jane@example.com", Password: "secret123",
			},
		})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})
}

func TestTeacherDeleteBlockedWhileHomeroom(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewTeacherService(db)
	classSvc := NewClassService(db)

	teacher, err := svc.Create(tc, CreateTeacherInput{
		Person: PersonInput{
			FirstName: "Jane", LastName: "Doe",
			Email: "homeroom@example.com", Password: "secret123",
		},
	})
	require.NoError(t, err)

	class, err := classSvc.Create(tc, CreateClassInput{
		Name: "Class 5", BranchID: tc.BranchID, AcademicYear: "2024", TeacherID: &teacher.ID,
	})
	require.NoError(t, err)

	err = svc.Delete(tc, teacher.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

	t.Run("deletes after the class releases it", func(t *testing.T) {
		_, err := classSvc.Update(tc, class.ID, UpdateClassInput{ClearTeacher: true})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(tc, teacher.ID))

		var users int64
		require.NoError(t, db.Model(&model.User{}).Where("id = ?", teacher.UserID).Count(&users).Error)
		assert.Zero(t, users)
	})
}

func TestTeacherSearchAndStats(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewTeacherService(db)

	seed := func(first, email, specialization string) {
		t.Helper()
		_, err := svc.Create(tc, CreateTeacherInput{
			Person: PersonInput{
				FirstName: first, LastName: "Teacher",
				Email: email, Password: "secret123",
			},
			Specialization: specialization,
		})
		require.NoError(t, err)
	}
	seed("Alice", "alice@example.com", "Physics")
	seed("Bob", "bob@example.com", "Physics")
	seed("Carol", "carol@example.com", "History")

	t.Run("search matches names case-insensitively", func(t *testing.T) {
		found, err := svc.Search(tc, "ALI")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "alice@example.com", found[0].User.Email)
	})

	t.Run("stats group by specialization", func(t *testing.T) {
		stats, err := svc.Stats(tc)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Total)
		assert.Equal(t, int64(3), stats.Active)
		assert.Equal(t, int64(2), stats.BySpecialization["Physics"])
		assert.Equal(t, int64(1), stats.BySpecialization["History"])
	})
}
