package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// AdmissionService runs the one workflow that creates two identities (parent
// and student) in a single atomic unit. Any failure inside the transaction
// rolls back both; the underlying message is surfaced verbatim.
type AdmissionService struct {
	db              *gorm.DB
	defaultPassword string

	// afterParentCreate runs inside the transaction between the parent and
	// student inserts; tests use it to force a rollback.
	afterParentCreate func(tx *gorm.DB) error
}

func NewAdmissionService(db *gorm.DB, defaultPassword string) *AdmissionService {
	return &AdmissionService{db: db, defaultPassword: defaultPassword}
}

// AdmissionInput is the full admission form.
type AdmissionInput struct {
	SectionID uint

	StudentFirstName string
	StudentLastName  string
	StudentEmail     string
	RollNumber       string
	Gender           string
	DateOfBirth      *time.Time

	ParentFirstName string
	ParentLastName  string
	ParentEmail     string
	ParentPhone     string
	Relation        string
}

// AdmissionResult identifies the records an admission created. The
// application number is a display label, not a key; collisions are tolerable.
type AdmissionResult struct {
	ApplicationNumber string `json:"application_number"`
	StudentID         uint   `json:"student_id"`
	ParentID          uint   `json:"parent_id"`
}

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func newApplicationNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = base36Upper[rand.Intn(len(base36Upper))]
	}
	return fmt.Sprintf("ADM-%d-%s", nowFunc().UnixMilli(), suffix)
}

// humanizeField converts a camelCase field name to a label,
// e.g. "parentFirstName" -> "Parent First Name".
func humanizeField(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i == 0 {
			b.WriteRune(r - ('a' - 'A'))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *AdmissionService) Admit(t tenant.Context, in AdmissionInput) (*AdmissionResult, error) {
	if in.SectionID == 0 {
		return nil, apperr.Validationf("section not selected")
	}

	var section model.Section
	err := s.db.
		Preload("Class.Branch.School").
		Where("aamar_id = ? AND id = ?", t.AamarID, in.SectionID).
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("section not found")
		}
		return nil, apperr.FromDB(err, "", "failed to process admission")
	}

	// The first missing field from this fixed list fails the whole form.
	required := []struct {
		name  string
		value string
	}{
		{"studentFirstName", in.StudentFirstName},
		{"studentLastName", in.StudentLastName},
		{"studentEmail", in.StudentEmail},
		{"rollNumber", in.RollNumber},
		{"gender", in.Gender},
		{"parentFirstName", in.ParentFirstName},
		{"parentLastName", in.ParentLastName},
		{"parentEmail", in.ParentEmail},
		{"parentPhone", in.ParentPhone},
		{"relation", in.Relation},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, apperr.Validationf("%s is required", humanizeField(field.name))
		}
	}

	studentEmail := strings.ToLower(strings.TrimSpace(in.StudentEmail))
	parentEmail := strings.ToLower(strings.TrimSpace(in.ParentEmail))
	if !emailRegex.MatchString(studentEmail) {
		return nil, apperr.Validationf("invalid student email")
	}
	if !emailRegex.MatchString(parentEmail) {
		return nil, apperr.Validationf("invalid parent email")
	}
	if !validRelation(in.Relation) {
		return nil, apperr.Validationf("invalid relation value")
	}

	for _, check := range []struct {
		which string
		email string
	}{
		{"student", studentEmail},
		{"parent", parentEmail},
	} {
		var count int64
		if err := s.db.Model(&model.User{}).
			Where("aamar_id = ? AND email = ?", t.AamarID, check.email).
			Count(&count).Error; err != nil {
			return nil, apperr.FromDB(err, "", "failed to process admission")
		}
		if count > 0 {
			return nil, apperr.Conflictf("%s email already in use", check.which)
		}
	}

	roll := strings.TrimSpace(in.RollNumber)
	var rollCount int64
	if err := s.db.Model(&model.Student{}).
		Where("aamar_id = ? AND section_id = ? AND roll_number = ?", t.AamarID, in.SectionID, roll).
		Count(&rollCount).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to process admission")
	}
	if rollCount > 0 {
		return nil, apperr.Conflictf("roll number already exists")
	}

	scoped := t
	if section.Class != nil {
		scoped.BranchID = section.Class.BranchID
	}
	gender := in.Gender
	relation := in.Relation
	phone := strings.TrimSpace(in.ParentPhone)

	result := AdmissionResult{ApplicationNumber: newApplicationNumber()}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Default password is documented as must-change-on-first-login.
		parentUser, err := createUserWithProfile(tx, scoped, model.RoleParent, PersonInput{
			FirstName: in.ParentFirstName,
			LastName:  in.ParentLastName,
			Email:     parentEmail,
			Password:  s.defaultPassword,
			Phone:     &phone,
		})
		if err != nil {
			return err
		}
		parent := model.Parent{
			AamarID:  t.AamarID,
			UserID:   parentUser.ID,
			Relation: relation,
		}
		if err := tx.Create(&parent).Error; err != nil {
			return apperr.FromDB(err, "", "failed to create parent")
		}

		if s.afterParentCreate != nil {
			if err := s.afterParentCreate(tx); err != nil {
				return err
			}
		}

		studentUser, err := createUserWithProfile(tx, scoped, model.RoleStudent, PersonInput{
			FirstName:   in.StudentFirstName,
			LastName:    in.StudentLastName,
			Email:       studentEmail,
			Password:    s.defaultPassword,
			Gender:      &gender,
			DateOfBirth: in.DateOfBirth,
		})
		if err != nil {
			return err
		}
		now := nowFunc()
		student := model.Student{
			AamarID:       t.AamarID,
			UserID:        studentUser.ID,
			RollNumber:    roll,
			SectionID:     section.ID,
			ClassID:       section.ClassID,
			ParentID:      &parent.ID,
			AdmissionDate: &now,
		}
		if err := tx.Create(&student).Error; err != nil {
			return apperr.FromDB(err, "roll number already exists", "failed to create student")
		}

		result.StudentID = student.ID
		result.ParentID = parent.ID
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return &result, nil
}
