package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// TeacherService owns teacher CRUD. Creating a teacher writes the identity,
// profile and teacher rows atomically.
type TeacherService struct {
	db *gorm.DB
}

func NewTeacherService(db *gorm.DB) *TeacherService {
	return &TeacherService{db: db}
}

type CreateTeacherInput struct {
	Person         PersonInput
	Qualification  string
	Experience     string
	Specialization string
	Subjects       []string
	Salary         float64
	JoiningDate    *time.Time
}

type UpdateTeacherInput struct {
	Person         PersonInput
	Qualification  *string
	Experience     *string
	Specialization *string
	Subjects       []string
	Salary         *float64
	JoiningDate    *time.Time
}

// TeacherStats aggregates tenant-wide teacher numbers.
type TeacherStats struct {
	Total            int64            `json:"total"`
	Active           int64            `json:"active"`
	BySpecialization map[string]int64 `json:"by_specialization"`
}

func (s *TeacherService) Create(t tenant.Context, in CreateTeacherInput) (*model.Teacher, error) {
	var teacher *model.Teacher
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := createUserWithProfile(tx, t, model.RoleTeacher, in.Person)
		if err != nil {
			return err
		}
		teacher = &model.Teacher{
			AamarID:        t.AamarID,
			UserID:         user.ID,
			Qualification:  in.Qualification,
			Experience:     in.Experience,
			Specialization: in.Specialization,
			Subjects:       strings.Join(in.Subjects, ","),
			Salary:         in.Salary,
			JoiningDate:    in.JoiningDate,
		}
		if err := tx.Create(teacher).Error; err != nil {
			return apperr.FromDB(err, "", "failed to create teacher")
		}
		teacher.User = user
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return teacher, nil
}

func (s *TeacherService) List(t tenant.Context) ([]model.Teacher, error) {
	var teachers []model.Teacher
	err := s.db.
		Preload("User.Profile").
		Preload("Classes").
		Where("aamar_id = ?", t.AamarID).
		Find(&teachers).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list teachers")
	}
	return teachers, nil
}

func (s *TeacherService) GetByID(t tenant.Context, id uint) (*model.Teacher, error) {
	var teacher model.Teacher
	err := s.db.
		Preload("User.Profile").
		Preload("Classes").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&teacher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("teacher not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch teacher")
	}
	return &teacher, nil
}

func (s *TeacherService) Update(t tenant.Context, id uint, in UpdateTeacherInput) (*model.Teacher, error) {
	teacher, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := updateUserIdentity(tx, teacher.UserID, in.Person); err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.Qualification != nil {
			updates["qualification"] = *in.Qualification
		}
		if in.Experience != nil {
			updates["experience"] = *in.Experience
		}
		if in.Specialization != nil {
			updates["specialization"] = *in.Specialization
		}
		if in.Subjects != nil {
			updates["subjects"] = strings.Join(in.Subjects, ",")
		}
		if in.Salary != nil {
			updates["salary"] = *in.Salary
		}
		if in.JoiningDate != nil {
			updates["joining_date"] = *in.JoiningDate
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(teacher).Updates(updates).Error; err != nil {
			return apperr.FromDB(err, "", "failed to update teacher")
		}
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return s.GetByID(t, id)
}

// Delete removes the teacher and their user row. Blocked while the teacher is
// still homeroom of any class.
func (s *TeacherService) Delete(t tenant.Context, id uint) error {
	teacher, err := s.GetByID(t, id)
	if err != nil {
		return err
	}
	if len(teacher.Classes) > 0 {
		return apperr.Preconditionf("teacher is assigned to classes").
			WithDetail("teacher is homeroom of %d classes", len(teacher.Classes))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("aamar_id = ? AND id = ?", t.AamarID, id).
			Delete(&model.Teacher{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", teacher.UserID).Delete(&model.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", teacher.UserID).Delete(&model.User{}).Error
	})
	if err != nil {
		return apperr.FromDB(err, "", "failed to delete teacher")
	}
	return nil
}

func (s *TeacherService) Search(t tenant.Context, query string) ([]model.Teacher, error) {
	kw := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var teachers []model.Teacher
	err := s.db.
		Preload("User.Profile").
		Joins("JOIN users ON users.id = teachers.user_id").
		Where("teachers.aamar_id = ?", t.AamarID).
		Where("LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(teachers.specialization) LIKE ?",
			kw, kw, kw, kw).
		Find(&teachers).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to search teachers")
	}
	return teachers, nil
}

func (s *TeacherService) Stats(t tenant.Context) (*TeacherStats, error) {
	var teachers []model.Teacher
	err := s.db.
		Preload("User").
		Where("aamar_id = ?", t.AamarID).
		Find(&teachers).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to compute teacher stats")
	}

	stats := TeacherStats{
		Total:            int64(len(teachers)),
		BySpecialization: map[string]int64{},
	}
	for _, teacher := range teachers {
		if teacher.User != nil && teacher.User.IsActive {
			stats.Active++
		}
		if teacher.Specialization != "" {
			stats.BySpecialization[teacher.Specialization]++
		}
	}
	return &stats, nil
}
