package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"school-service/internal/model"
	"school-service/internal/tenant"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// seedTenant creates a school and branch and returns the scoped context.
func seedTenant(t *testing.T, db *gorm.DB, aamarID string) tenant.Context {
	t.Helper()
	school := model.School{AamarID: aamarID, Name: "Test School " + aamarID}
	require.NoError(t, db.Create(&school).Error)
	branch := model.Branch{
		AamarID:  aamarID,
		SchoolID: school.ID,
		Name:     "Main Campus",
		Code:     "MAIN",
	}
	require.NoError(t, db.Create(&branch).Error)
	return tenant.Context{
		UserID:   1,
		Email:    "admin@" + aamarID + ".test",
		AamarID:  aamarID,
		SchoolID: school.ID,
		BranchID: branch.ID,
		Role:     model.RoleAdmin,
	}
}

func seedClass(t *testing.T, db *gorm.DB, tc tenant.Context, name, year string) model.Class {
	t.Helper()
	class := model.Class{
		AamarID:      tc.AamarID,
		Name:         name,
		BranchID:     tc.BranchID,
		AcademicYear: year,
	}
	require.NoError(t, db.Create(&class).Error)
	return class
}

func seedSection(t *testing.T, db *gorm.DB, tc tenant.Context, classID uint, name string) model.Section {
	t.Helper()
	section := model.Section{
		AamarID:  tc.AamarID,
		ClassID:  classID,
		Name:     name,
		Capacity: 40,
	}
	require.NoError(t, db.Create(&section).Error)
	return section
}

func seedSubject(t *testing.T, db *gorm.DB, tc tenant.Context, classID uint, name, code string) model.Subject {
	t.Helper()
	subject := model.Subject{
		AamarID: tc.AamarID,
		ClassID: classID,
		Name:    name,
		Code:    code,
	}
	require.NoError(t, db.Create(&subject).Error)
	return subject
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, tc tenant.Context, role string) model.User {
	t.Helper()
	userSeq++
	user := model.User{
		AamarID:   tc.AamarID,
		Email:     fmt.Sprintf("%s%d@%s.test", role, userSeq, tc.AamarID),
		Password:  "x",
		FirstName: "Seed",
		LastName:  role,
		Role:      role,
		IsActive:  true,
		SchoolID:  tc.SchoolID,
		BranchID:  tc.BranchID,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedTeacher(t *testing.T, db *gorm.DB, tc tenant.Context) model.Teacher {
	t.Helper()
	user := seedUser(t, db, tc, model.RoleTeacher)
	teacher := model.Teacher{AamarID: tc.AamarID, UserID: user.ID}
	require.NoError(t, db.Create(&teacher).Error)
	return teacher
}

func seedStudent(t *testing.T, db *gorm.DB, tc tenant.Context, sectionID, classID uint, roll string) model.Student {
	t.Helper()
	user := seedUser(t, db, tc, model.RoleStudent)
	student := model.Student{
		AamarID:    tc.AamarID,
		UserID:     user.ID,
		RollNumber: roll,
		SectionID:  sectionID,
		ClassID:    classID,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func ptr[T any](v T) *T { return &v }
