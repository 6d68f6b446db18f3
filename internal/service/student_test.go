package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
	"school-service/internal/model"
)

func studentPerson(email string) PersonInput {
	return PersonInput{
		FirstName: "Test",
		LastName:  "Student",
		Email:     email,
		Password:  "secret123",
	}
}

func TestStudentCreate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewStudentService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	section := seedSection(t, db, tc, class.ID, "A")

	t.Run("creates user, profile and student atomically", func(t *testing.T) {
		student, err := svc.Create(tc, CreateStudentInput{
			Person:     studentPerson("s1@example.com"),
			RollNumber: "2024001",
			SectionID:  section.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, class.ID, student.ClassID)
		assert.NotNil(t, student.AdmissionDate)

		var user model.User
		require.NoError(t, db.Preload("Profile").First(&user, student.UserID).Error)
		assert.Equal(t, model.RoleStudent, user.Role)
		assert.NotNil(t, user.Profile)
		// Branch comes from the section's class, not the caller.
		assert.Equal(t, class.BranchID, user.BranchID)
		assert.NotEqual(t, "secret123", user.Password)
	})

	t.Run("rejects duplicate roll in section", func(t *testing.T) {
		_, err := svc.Create(tc, CreateStudentInput{
			Person:     studentPerson("s2@example.com"),
			RollNumber: "2024001",
			SectionID:  section.ID,
		})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("same roll allowed in another section", func(t *testing.T) {
		other := seedSection(t, db, tc, class.ID, "B")
		_, err := svc.Create(tc, CreateStudentInput{
			Person:     studentPerson("s3@example.com"),
			RollNumber: "2024001",
			SectionID:  other.ID,
		})
		assert.NoError(t, err)
	})

	t.Run("rejects duplicate email globally", func(t *testing.T) {
		_, err := svc.Create(tc, CreateStudentInput{
			Person:     studentPerson("s1@example.com"),
			RollNumber: "2024009",
			SectionID:  section.ID,
		})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("rejects foreign section", func(t *testing.T) {
		other := seedTenant(t, db, "school-b")
		otherClass := seedClass(t, db, other, "Class 5", "2024")
		otherSection := seedSection(t, db, other, otherClass.ID, "A")
		_, err := svc.Create(tc, CreateStudentInput{
			Person:     studentPerson("s4@example.com"),
			RollNumber: "2024002",
			SectionID:  otherSection.ID,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("rejects foreign parent", func(t *testing.T) {
		_, err := svc.Create(tc, CreateStudentInput{
			Person:     studentPerson("s5@example.com"),
			RollNumber: "2024003",
			SectionID:  section.ID,
			ParentID:   ptr(uint(9999)),
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestStudentUpdateSectionMove(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewStudentService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	sectionA := seedSection(t, db, tc, class.ID, "A")
	sectionB := seedSection(t, db, tc, class.ID, "B")

	student, err := svc.Create(tc, CreateStudentInput{
		Person:     studentPerson("move@example.com"),
		RollNumber: "2024001",
		SectionID:  sectionA.ID,
	})
	require.NoError(t, err)

	t.Run("move fails when the roll is taken in the target", func(t *testing.T) {
		seedStudent(t, db, tc, sectionB.ID, class.ID, "2024001")
		_, err := svc.Update(tc, student.ID, UpdateStudentInput{
			Person:    studentPerson("move@example.com"),
			SectionID: &sectionB.ID,
		})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("move succeeds with a new roll", func(t *testing.T) {
		updated, err := svc.Update(tc, student.ID, UpdateStudentInput{
			Person:     studentPerson("move@example.com"),
			SectionID:  &sectionB.ID,
			RollNumber: ptr("2024002"),
		})
		require.NoError(t, err)
		assert.Equal(t, sectionB.ID, updated.SectionID)
		assert.Equal(t, "2024002", updated.RollNumber)
	})
}

func TestStudentUpdateProfileAbsenceMeansNull(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewStudentService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	section := seedSection(t, db, tc, class.ID, "A")

	person := studentPerson("profile@example.com")
	person.Phone = ptr("01700000000")
	person.BloodGroup = ptr("O+")
	student, err := svc.Create(tc, CreateStudentInput{
		Person: person, RollNumber: "2024001", SectionID: section.ID,
	})
	require.NoError(t, err)

	// Update supplying only the phone: blood group must be cleared.
	update := studentPerson("profile@example.com")
	update.Phone = ptr("01911111111")
	_, err = svc.Update(tc, student.ID, UpdateStudentInput{Person: update})
	require.NoError(t, err)

	var profile model.Profile
	require.NoError(t, db.Where("user_id = ?", student.UserID).First(&profile).Error)
	require.NotNil(t, profile.Phone)
	assert.Equal(t, "01911111111", *profile.Phone)
	assert.Nil(t, profile.BloodGroup)
}

func TestStudentUpdateParentNames(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	parentSvc := NewParentService(db)
	svc := NewStudentService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	section := seedSection(t, db, tc, class.ID, "A")

	parent, err := parentSvc.Create(tc, CreateParentInput{
		Person: PersonInput{
			FirstName: "Old", LastName: "Name",
			Email: "parent@example.com", Password: "secret123",
		},
		Relation: model.RelationFather,
	})
	require.NoError(t, err)

	student, err := svc.Create(tc, CreateStudentInput{
		Person:     studentPerson("child@example.com"),
		RollNumber: "2024001",
		SectionID:  section.ID,
		ParentID:   &parent.ID,
	})
	require.NoError(t, err)

	_, err = svc.Update(tc, student.ID, UpdateStudentInput{
		Person:          studentPerson("child@example.com"),
		ParentFirstName: ptr("New"),
		ParentRelation:  ptr(model.RelationGuardian),
	})
	require.NoError(t, err)

	var parentUser model.User
	require.NoError(t, db.First(&parentUser, parent.UserID).Error)
	assert.Equal(t, "New", parentUser.FirstName)
	assert.Equal(t, "Name", parentUser.LastName)

	var updatedParent model.Parent
	require.NoError(t, db.First(&updatedParent, parent.ID).Error)
	assert.Equal(t, model.RelationGuardian, updatedParent.Relation)
}

func TestStudentDeleteRemovesIdentity(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewStudentService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	section := seedSection(t, db, tc, class.ID, "A")

	student, err := svc.Create(tc, CreateStudentInput{
		Person:     studentPerson("gone@example.com"),
		RollNumber: "2024001",
		SectionID:  section.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(tc, student.ID))

	var users, profiles, students int64
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", student.UserID).Count(&users).Error)
	require.NoError(t, db.Model(&model.Profile{}).Where("user_id = ?", student.UserID).Count(&profiles).Error)
	require.NoError(t, db.Model(&model.Student{}).Where("id = ?", student.ID).Count(&students).Error)
	assert.Zero(t, users)
	assert.Zero(t, profiles)
	assert.Zero(t, students)
}

func TestStudentStats(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewStudentService(db)
	feeSvc := NewFeeService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	section := seedSection(t, db, tc, class.ID, "A")

	restore := nowFunc
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = restore }()

	mustCreate := func(email, roll, gender string, admitted time.Time) *model.Student {
		t.Helper()
		person := studentPerson(email)
		person.Gender = &gender
		student, err := svc.Create(tc, CreateStudentInput{
			Person: person, RollNumber: roll, SectionID: section.ID,
			AdmissionDate: &admitted,
		})
		require.NoError(t, err)
		return student
	}

	recent := now.AddDate(0, 0, -5)
	old := now.AddDate(0, 0, -90)
	s1 := mustCreate("a@example.com", "2024001", "female", recent)
	mustCreate("b@example.com", "2024002", "male", old)
	mustCreate("c@example.com", "2024003", "female", old)

	_, err := feeSvc.Create(tc, CreateFeeInput{StudentID: s1.ID, Title: "Tuition", Amount: 100})
	require.NoError(t, err)

	stats, err := svc.Stats(tc)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(3), stats.Active)
	assert.Equal(t, int64(1), stats.Male)
	assert.Equal(t, int64(2), stats.Female)
	assert.Equal(t, int64(1), stats.WithPendingFees)
	assert.Equal(t, int64(1), stats.AdmittedLast30Days)
}
