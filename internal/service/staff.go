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

// StaffService owns staff CRUD for non-teaching employees.
type StaffService struct {
	db *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{db: db}
}

type CreateStaffInput struct {
	Person      PersonInput
	Designation string
	Department  string
	Salary      float64
	JoiningDate *time.Time
}

type UpdateStaffInput struct {
	Person      PersonInput
	Designation *string
	Department  *string
	Salary      *float64
	JoiningDate *time.Time
}

func (s *StaffService) Create(t tenant.Context, in CreateStaffInput) (*model.Staff, error) {
	var staff *model.Staff
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := createUserWithProfile(tx, t, model.RoleStaff, in.Person)
		if err != nil {
			return err
		}
		staff = &model.Staff{
			AamarID:     t.AamarID,
			UserID:      user.ID,
			Designation: in.Designation,
			Department:  in.Department,
			Salary:      in.Salary,
			JoiningDate: in.JoiningDate,
		}
		if err := tx.Create(staff).Error; err != nil {
			return apperr.FromDB(err, "", "failed to create staff")
		}
		staff.User = user
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return staff, nil
}

func (s *StaffService) List(t tenant.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := s.db.
		Preload("User.Profile").
		Where("aamar_id = ?", t.AamarID).
		Find(&staff).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list staff")
	}
	return staff, nil
}

func (s *StaffService) GetByID(t tenant.Context, id uint) (*model.Staff, error) {
	var staff model.Staff
	err := s.db.
		Preload("User.Profile").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("staff member not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch staff member")
	}
	return &staff, nil
}

func (s *StaffService) Update(t tenant.Context, id uint, in UpdateStaffInput) (*model.Staff, error) {
	staff, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := updateUserIdentity(tx, staff.UserID, in.Person); err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.Designation != nil {
			updates["designation"] = *in.Designation
		}
		if in.Department != nil {
			updates["department"] = *in.Department
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
		if err := tx.Model(staff).Updates(updates).Error; err != nil {
			return apperr.FromDB(err, "", "failed to update staff")
		}
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return s.GetByID(t, id)
}

func (s *StaffService) Delete(t tenant.Context, id uint) error {
	staff, err := s.GetByID(t, id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("aamar_id = ? AND id = ?", t.AamarID, id).
			Delete(&model.Staff{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", staff.UserID).Delete(&model.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", staff.UserID).Delete(&model.User{}).Error
	})
	if err != nil {
		return apperr.FromDB(err, "", "failed to delete staff")
	}
	return nil
}

func (s *StaffService) Search(t tenant.Context, query string) ([]model.Staff, error) {
	kw := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var staff []model.Staff
	err := s.db.
		Preload("User.Profile").
		Joins("JOIN users ON users.id = staffs.user_id").
		Where("staffs.aamar_id = ?", t.AamarID).
		Where("LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(staffs.designation) LIKE ? OR LOWER(staffs.department) LIKE ?",
			kw, kw, kw, kw).
		Find(&staff).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to search staff")
	}
	return staff, nil
}
