package service

import (
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
	"school-service/pkg/logger"
)

// maxHomeroomClasses caps how many classes one teacher can be homeroom of.
const maxHomeroomClasses = 3

// ClassService owns class CRUD and the cross-entity rules around it:
// duplicate-tuple rejection, foreign-reference tenant checks, the homeroom
// teacher load cap and the delete-blocked-by-dependents guard.
type ClassService struct {
	db *gorm.DB
}

func NewClassService(db *gorm.DB) *ClassService {
	return &ClassService{db: db}
}

// CreateClassInput carries the fields accepted by Create.
type CreateClassInput struct {
	Name         string
	BranchID     uint
	AcademicYear string
	TeacherID    *uint
}

// UpdateClassInput carries partial updates; nil fields are left untouched.
type UpdateClassInput struct {
	Name         *string
	BranchID     *uint
	AcademicYear *string
	TeacherID    *uint
	ClearTeacher bool
}

// ClassStats aggregates tenant-wide class numbers.
type ClassStats struct {
	TotalClasses            int64 `json:"total_classes"`
	TotalStudents           int64 `json:"total_students"`
	ClassesWithTeachers     int64 `json:"classes_with_teachers"`
	ClassesWithoutTeachers  int64 `json:"classes_without_teachers"`
	AverageStudentsPerClass int   `json:"average_students_per_class"`
}

func (s *ClassService) Create(t tenant.Context, in CreateClassInput) (*model.Class, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.AcademicYear = strings.TrimSpace(in.AcademicYear)
	if in.Name == "" || in.BranchID == 0 || in.AcademicYear == "" {
		return nil, apperr.Validationf("name, branch and academic year are required")
	}

	if err := s.checkBranch(t, in.BranchID); err != nil {
		return nil, err
	}
	if in.TeacherID != nil {
		if err := s.checkTeacherLoad(t, *in.TeacherID, 0); err != nil {
			return nil, err
		}
	}

	var count int64
	if err := s.db.Model(&model.Class{}).
		Where("aamar_id = ? AND name = ? AND branch_id = ? AND academic_year = ?",
			t.AamarID, in.Name, in.BranchID, in.AcademicYear).
		Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, "class already exists", "failed to create class")
	}
	if count > 0 {
		return nil, apperr.Conflictf("class already exists").
			WithDetail("a class named %q already exists for this branch and academic year", in.Name)
	}

	class := model.Class{
		AamarID:      t.AamarID,
		Name:         in.Name,
		BranchID:     in.BranchID,
		AcademicYear: in.AcademicYear,
		TeacherID:    in.TeacherID,
	}
	if err := s.db.Create(&class).Error; err != nil {
		return nil, apperr.FromDB(err, "class already exists", "failed to create class")
	}

	logger.GetLogger().Debug("class created",
		zap.Uint("class_id", class.ID), zap.String("aamar_id", t.AamarID))
	return &class, nil
}

func (s *ClassService) List(t tenant.Context) ([]model.Class, error) {
	var classes []model.Class
	err := s.db.
		Preload("Branch").
		Preload("Teacher.User").
		Preload("Subjects").
		Preload("Sections.Students").
		Where("aamar_id = ?", t.AamarID).
		Order("name").
		Find(&classes).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list classes")
	}
	return classes, nil
}

func (s *ClassService) GetByID(t tenant.Context, id uint) (*model.Class, error) {
	var class model.Class
	err := s.db.
		Preload("Branch").
		Preload("Teacher.User").
		Preload("Subjects").
		Preload("Sections.Students").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("class not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch class")
	}
	return &class, nil
}

func (s *ClassService) Update(t tenant.Context, id uint, in UpdateClassInput) (*model.Class, error) {
	class, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}

	name := class.Name
	branchID := class.BranchID
	year := class.AcademicYear
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
	}
	if in.BranchID != nil {
		branchID = *in.BranchID
		if err := s.checkBranch(t, branchID); err != nil {
			return nil, err
		}
	}
	if in.AcademicYear != nil {
		year = strings.TrimSpace(*in.AcademicYear)
		if year == "" {
			return nil, apperr.Validationf("academic year cannot be empty")
		}
	}

	// Re-check the duplicate tuple excluding the row being updated.
	var count int64
	if err := s.db.Model(&model.Class{}).
		Where("aamar_id = ? AND name = ? AND branch_id = ? AND academic_year = ? AND id <> ?",
			t.AamarID, name, branchID, year, id).
		Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, "class already exists", "failed to update class")
	}
	if count > 0 {
		return nil, apperr.Conflictf("class already exists")
	}

	teacherID := class.TeacherID
	switch {
	case in.ClearTeacher:
		teacherID = nil
	case in.TeacherID != nil:
		if err := s.checkTeacherLoad(t, *in.TeacherID, id); err != nil {
			return nil, err
		}
		teacherID = in.TeacherID
	}

	updates := map[string]interface{}{
		"name":          name,
		"branch_id":     branchID,
		"academic_year": year,
		"teacher_id":    teacherID,
	}
	if err := s.db.Model(class).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "class already exists", "failed to update class")
	}
	return s.GetByID(t, id)
}

// Delete removes a class after verifying nothing depends on it: no enrolled
// students in any section, no subjects and no timetable entries. Empty
// sections are removed with the class in the same transaction.
func (s *ClassService) Delete(t tenant.Context, id uint) error {
	class, err := s.GetByID(t, id)
	if err != nil {
		return err
	}

	totalStudents := 0
	for _, section := range class.Sections {
		totalStudents += len(section.Students)
	}
	if totalStudents > 0 {
		return apperr.Preconditionf("class has students").
			WithDetail("%d students are enrolled in this class", totalStudents)
	}

	var timetables int64
	if err := s.db.Model(&model.Timetable{}).
		Where("aamar_id = ? AND class_id = ?", t.AamarID, id).
		Count(&timetables).Error; err != nil {
		return apperr.FromDB(err, "", "failed to delete class")
	}
	if len(class.Subjects) > 0 || timetables > 0 {
		return apperr.Preconditionf("class has subjects or timetables")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("aamar_id = ? AND class_id = ?", t.AamarID, id).
			Delete(&model.Section{}).Error; err != nil {
			return err
		}
		return tx.Where("aamar_id = ? AND id = ?", t.AamarID, id).
			Delete(&model.Class{}).Error
	})
	if err != nil {
		return apperr.FromDB(err, "", "failed to delete class")
	}
	return nil
}

func (s *ClassService) ListByBranch(t tenant.Context, branchID uint) ([]model.Class, error) {
	var classes []model.Class
	err := s.db.
		Preload("Teacher.User").
		Preload("Sections.Students").
		Where("aamar_id = ? AND branch_id = ?", t.AamarID, branchID).
		Order("name").
		Find(&classes).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list classes")
	}
	return classes, nil
}

func (s *ClassService) ListByAcademicYear(t tenant.Context, year string) ([]model.Class, error) {
	var classes []model.Class
	err := s.db.
		Preload("Branch").
		Preload("Teacher.User").
		Where("aamar_id = ? AND academic_year = ?", t.AamarID, year).
		Order("name").
		Find(&classes).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list classes")
	}
	return classes, nil
}

func (s *ClassService) Search(t tenant.Context, query string) ([]model.Class, error) {
	kw := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var classes []model.Class
	err := s.db.
		Preload("Branch").
		Where("aamar_id = ? AND (LOWER(name) LIKE ? OR LOWER(academic_year) LIKE ?)",
			t.AamarID, kw, kw).
		Order("name").
		Find(&classes).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to search classes")
	}
	return classes, nil
}

func (s *ClassService) Stats(t tenant.Context) (*ClassStats, error) {
	var classes []model.Class
	err := s.db.
		Preload("Sections.Students").
		Where("aamar_id = ?", t.AamarID).
		Find(&classes).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to compute class stats")
	}

	stats := ClassStats{TotalClasses: int64(len(classes))}
	for _, class := range classes {
		if class.TeacherID != nil {
			stats.ClassesWithTeachers++
		} else {
			stats.ClassesWithoutTeachers++
		}
		for _, section := range class.Sections {
			stats.TotalStudents += int64(len(section.Students))
		}
	}
	if stats.TotalClasses > 0 {
		stats.AverageStudentsPerClass = int(math.Round(float64(stats.TotalStudents) / float64(stats.TotalClasses)))
	}
	return &stats, nil
}

// AssignStudents validates the class but persists nothing: students relate to
// sections, not directly to classes, so there is no relation to write. The
// caller gets an explicit not-implemented result instead of a silent success.
func (s *ClassService) AssignStudents(t tenant.Context, classID uint, studentIDs []uint) error {
	if _, err := s.GetByID(t, classID); err != nil {
		return err
	}
	if len(studentIDs) == 0 {
		return apperr.Validationf("no students supplied")
	}
	return apperr.NotImplemented("students are assigned through sections").
		WithDetail("assign each student to one of the class's sections instead")
}

// ListAvailableTeachers returns teachers below the homeroom load cap.
func (s *ClassService) ListAvailableTeachers(t tenant.Context) ([]model.Teacher, error) {
	var teachers []model.Teacher
	err := s.db.
		Preload("User").
		Preload("Classes").
		Where("aamar_id = ?", t.AamarID).
		Find(&teachers).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list available teachers")
	}

	available := make([]model.Teacher, 0, len(teachers))
	for _, teacher := range teachers {
		if len(teacher.Classes) < maxHomeroomClasses {
			available = append(available, teacher)
		}
	}
	return available, nil
}

func (s *ClassService) ListSubjects(t tenant.Context, classID uint) ([]model.Subject, error) {
	if _, err := s.GetByID(t, classID); err != nil {
		return nil, err
	}
	var subjects []model.Subject
	err := s.db.
		Where("aamar_id = ? AND class_id = ?", t.AamarID, classID).
		Order("name").
		Find(&subjects).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list subjects")
	}
	return subjects, nil
}

func (s *ClassService) checkBranch(t tenant.Context, branchID uint) error {
	var count int64
	if err := s.db.Model(&model.Branch{}).
		Where("aamar_id = ? AND id = ?", t.AamarID, branchID).
		Count(&count).Error; err != nil {
		return apperr.FromDB(err, "", "failed to validate branch")
	}
	if count == 0 {
		return apperr.Validationf("branch does not belong to this school")
	}
	return nil
}

// checkTeacherLoad verifies the teacher belongs to the tenant and is below
// the homeroom cap, not counting excludeClassID when re-assigning.
func (s *ClassService) checkTeacherLoad(t tenant.Context, teacherID, excludeClassID uint) error {
	var teacher model.Teacher
	err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, teacherID).First(&teacher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validationf("teacher does not belong to this school")
		}
		return apperr.FromDB(err, "", "failed to validate teacher")
	}

	var load int64
	q := s.db.Model(&model.Class{}).
		Where("aamar_id = ? AND teacher_id = ?", t.AamarID, teacherID)
	if excludeClassID != 0 {
		q = q.Where("id <> ?", excludeClassID)
	}
	if err := q.Count(&load).Error; err != nil {
		return apperr.FromDB(err, "", "failed to validate teacher")
	}
	if load >= maxHomeroomClasses {
		return apperr.Preconditionf("teacher is overloaded").
			WithDetail("teacher already leads %d classes", load)
	}
	return nil
}
