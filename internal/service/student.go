package service

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// StudentService owns student CRUD. A student wraps a user; creation writes
// identity, profile and student rows atomically and derives the branch from
// the section's class rather than trusting the caller.
type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

type CreateStudentInput struct {
	Person        PersonInput
	RollNumber    string
	SectionID     uint
	ParentID      *uint
	AdmissionDate *time.Time
}

// UpdateStudentInput: identity fields are required and always overwritten;
// profile fields follow absence-means-null; parent names, when supplied and a
// parent is linked, update the parent's identity in the same transaction.
type UpdateStudentInput struct {
	Person          PersonInput
	RollNumber      *string
	SectionID       *uint
	ParentFirstName *string
	ParentLastName  *string
	ParentRelation  *string
}

// StudentStats are six independent counts; the queries are read-only and
// independent so they fan out concurrently.
type StudentStats struct {
	Total              int64 `json:"total"`
	Active             int64 `json:"active"`
	Male               int64 `json:"male"`
	Female             int64 `json:"female"`
	WithPendingFees    int64 `json:"with_pending_fees"`
	AdmittedLast30Days int64 `json:"admitted_last_30_days"`
}

func (s *StudentService) Create(t tenant.Context, in CreateStudentInput) (*model.Student, error) {
	in.RollNumber = strings.TrimSpace(in.RollNumber)
	if in.SectionID == 0 {
		return nil, apperr.Validationf("section is required")
	}

	section, err := s.resolveSection(t, in.SectionID)
	if err != nil {
		return nil, err
	}
	if in.RollNumber == "" {
		roll, err := GenerateRollNumber(s.db, t, in.SectionID)
		if err != nil {
			return nil, err
		}
		in.RollNumber = roll
	}
	if err := s.checkRollNumber(t, in.SectionID, in.RollNumber, 0); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		var count int64
		if err := s.db.Model(&model.Parent{}).
			Where("aamar_id = ? AND id = ?", t.AamarID, *in.ParentID).
			Count(&count).Error; err != nil {
			return nil, apperr.FromDB(err, "", "failed to create student")
		}
		if count == 0 {
			return nil, apperr.Validationf("parent does not belong to this school")
		}
	}

	// Branch comes from the resolved section's class, not the caller.
	scoped := t
	if section.Class != nil {
		scoped.BranchID = section.Class.BranchID
	}

	admission := in.AdmissionDate
	if admission == nil {
		now := nowFunc()
		admission = &now
	}

	var student *model.Student
	err = s.db.Transaction(func(tx *gorm.DB) error {
		user, err := createUserWithProfile(tx, scoped, model.RoleStudent, in.Person)
		if err != nil {
			return err
		}
		student = &model.Student{
			AamarID:       t.AamarID,
			UserID:        user.ID,
			RollNumber:    in.RollNumber,
			SectionID:     in.SectionID,
			ClassID:       section.ClassID,
			ParentID:      in.ParentID,
			AdmissionDate: admission,
		}
		if err := tx.Create(student).Error; err != nil {
			return apperr.FromDB(err, "roll number already exists", "failed to create student")
		}
		student.User = user
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return student, nil
}

func (s *StudentService) List(t tenant.Context) ([]model.Student, error) {
	var students []model.Student
	err := s.db.
		Preload("User.Profile").
		Preload("Section").
		Preload("Class.Branch").
		Preload("Parent.User").
		Where("aamar_id = ?", t.AamarID).
		Order("roll_number").
		Find(&students).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list students")
	}
	return students, nil
}

func (s *StudentService) GetByID(t tenant.Context, id uint) (*model.Student, error) {
	var student model.Student
	err := s.db.
		Preload("User.Profile").
		Preload("Section").
		Preload("Class.Branch").
		Preload("Parent.User.Profile").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("student not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch student")
	}
	return &student, nil
}

func (s *StudentService) Update(t tenant.Context, id uint, in UpdateStudentInput) (*model.Student, error) {
	student, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}

	sectionID := student.SectionID
	classID := student.ClassID
	if in.SectionID != nil && *in.SectionID != student.SectionID {
		section, err := s.resolveSection(t, *in.SectionID)
		if err != nil {
			return nil, err
		}
		sectionID = *in.SectionID
		classID = section.ClassID
	}
	if in.RollNumber != nil {
		roll := strings.TrimSpace(*in.RollNumber)
		if roll == "" {
			return nil, apperr.Validationf("roll number cannot be empty")
		}
		if err := s.checkRollNumber(t, sectionID, roll, id); err != nil {
			return nil, err
		}
	} else if sectionID != student.SectionID {
		// Moving sections keeps the roll number; it must stay unique there.
		if err := s.checkRollNumber(t, sectionID, student.RollNumber, id); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := updateUserIdentity(tx, student.UserID, in.Person); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"section_id": sectionID,
			"class_id":   classID,
		}
		if in.RollNumber != nil {
			updates["roll_number"] = strings.TrimSpace(*in.RollNumber)
		}
		if err := tx.Model(student).Updates(updates).Error; err != nil {
			return apperr.FromDB(err, "roll number already exists", "failed to update student")
		}

		// A linked parent's names/relation only change when supplied.
		if student.Parent != nil && (in.ParentFirstName != nil || in.ParentLastName != nil || in.ParentRelation != nil) {
			parentUpdates := map[string]interface{}{}
			if in.ParentFirstName != nil {
				parentUpdates["first_name"] = strings.TrimSpace(*in.ParentFirstName)
			}
			if in.ParentLastName != nil {
				parentUpdates["last_name"] = strings.TrimSpace(*in.ParentLastName)
			}
			if len(parentUpdates) > 0 {
				if err := tx.Model(&model.User{}).Where("id = ?", student.Parent.UserID).
					Updates(parentUpdates).Error; err != nil {
					return apperr.FromDB(err, "", "failed to update parent")
				}
			}
			if in.ParentRelation != nil {
				if err := tx.Model(&model.Parent{}).Where("id = ?", student.Parent.ID).
					Update("relation", *in.ParentRelation).Error; err != nil {
					return apperr.FromDB(err, "", "failed to update parent")
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return s.GetByID(t, id)
}

// Delete hard-deletes the student then its user; the profile follows the user.
func (s *StudentService) Delete(t tenant.Context, id uint) error {
	student, err := s.GetByID(t, id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("aamar_id = ? AND id = ?", t.AamarID, id).
			Delete(&model.Student{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", student.UserID).Delete(&model.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", student.UserID).Delete(&model.User{}).Error
	})
	if err != nil {
		return apperr.FromDB(err, "", "failed to delete student")
	}
	return nil
}

func (s *StudentService) ListBySection(t tenant.Context, sectionID uint) ([]model.Student, error) {
	return s.listWhere(t, "section_id = ?", sectionID)
}

func (s *StudentService) ListByClass(t tenant.Context, classID uint) ([]model.Student, error) {
	return s.listWhere(t, "class_id = ?", classID)
}

func (s *StudentService) ListByBranch(t tenant.Context, branchID uint) ([]model.Student, error) {
	var students []model.Student
	err := s.db.
		Preload("User.Profile").
		Preload("Section").
		Joins("JOIN classes ON classes.id = students.class_id").
		Where("students.aamar_id = ? AND classes.branch_id = ?", t.AamarID, branchID).
		Order("students.roll_number").
		Find(&students).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list students")
	}
	return students, nil
}

func (s *StudentService) Search(t tenant.Context, query string) ([]model.Student, error) {
	kw := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var students []model.Student
	err := s.db.
		Preload("User.Profile").
		Preload("Section").
		Joins("JOIN users ON users.id = students.user_id").
		Where("students.aamar_id = ?", t.AamarID).
		Where("LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(students.roll_number) LIKE ?",
			kw, kw, kw, kw).
		Find(&students).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to search students")
	}
	return students, nil
}

// Stats runs its six counts concurrently; they are independent reads.
func (s *StudentService) Stats(t tenant.Context) (*StudentStats, error) {
	stats := StudentStats{}
	cutoff := nowFunc().AddDate(0, 0, -30)

	var g errgroup.Group
	g.Go(func() error {
		return s.db.Model(&model.Student{}).
			Where("aamar_id = ?", t.AamarID).
			Count(&stats.Total).Error
	})
	g.Go(func() error {
		return s.db.Model(&model.Student{}).
			Joins("JOIN users ON users.id = students.user_id").
			Where("students.aamar_id = ? AND users.is_active = ?", t.AamarID, true).
			Count(&stats.Active).Error
	})
	g.Go(func() error {
		return s.countByGender(t, "male", &stats.Male)
	})
	g.Go(func() error {
		return s.countByGender(t, "female", &stats.Female)
	})
	g.Go(func() error {
		return s.db.Model(&model.Student{}).
			Joins("JOIN fees ON fees.student_id = students.id").
			Where("students.aamar_id = ? AND fees.status = ?", t.AamarID, model.FeePending).
			Distinct("students.id").
			Count(&stats.WithPendingFees).Error
	})
	g.Go(func() error {
		return s.db.Model(&model.Student{}).
			Where("aamar_id = ? AND admission_date >= ?", t.AamarID, cutoff).
			Count(&stats.AdmittedLast30Days).Error
	})

	if err := g.Wait(); err != nil {
		return nil, apperr.FromDB(err, "", "failed to compute student stats")
	}
	return &stats, nil
}

func (s *StudentService) countByGender(t tenant.Context, gender string, out *int64) error {
	return s.db.Model(&model.Student{}).
		Joins("JOIN users ON users.id = students.user_id").
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("students.aamar_id = ? AND LOWER(profiles.gender) = ?", t.AamarID, gender).
		Count(out).Error
}

func (s *StudentService) listWhere(t tenant.Context, cond string, arg interface{}) ([]model.Student, error) {
	var students []model.Student
	err := s.db.
		Preload("User.Profile").
		Preload("Section").
		Preload("Parent.User").
		Where("aamar_id = ?", t.AamarID).
		Where(cond, arg).
		Order("roll_number").
		Find(&students).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list students")
	}
	return students, nil
}

// resolveSection fetches a tenant-scoped section with its class and branch.
func (s *StudentService) resolveSection(t tenant.Context, sectionID uint) (*model.Section, error) {
	var section model.Section
	err := s.db.
		Preload("Class.Branch").
		Where("aamar_id = ? AND id = ?", t.AamarID, sectionID).
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validationf("section does not belong to this school")
		}
		return nil, apperr.FromDB(err, "", "failed to resolve section")
	}
	return &section, nil
}

// checkRollNumber enforces uniqueness within (tenant, section).
func (s *StudentService) checkRollNumber(t tenant.Context, sectionID uint, roll string, excludeID uint) error {
	q := s.db.Model(&model.Student{}).
		Where("aamar_id = ? AND section_id = ? AND roll_number = ?", t.AamarID, sectionID, roll)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperr.FromDB(err, "", "failed to validate roll number")
	}
	if count > 0 {
		return apperr.Conflictf("roll number already exists").
			WithDetail("roll number %s is already used in this section", roll)
	}
	return nil
}
