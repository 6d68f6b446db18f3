package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// SchoolService owns the tenant's school record.
type SchoolService struct {
	db *gorm.DB
}

func NewSchoolService(db *gorm.DB) *SchoolService {
	return &SchoolService{db: db}
}

type UpdateSchoolInput struct {
	Name    *string
	Address *string
	Phone   *string
	Email   *string
	Website *string
}

// Get returns the caller's school with its branches.
func (s *SchoolService) Get(t tenant.Context) (*model.School, error) {
	var school model.School
	err := s.db.
		Preload("Branches").
		Where("aamar_id = ? AND id = ?", t.AamarID, t.SchoolID).
		First(&school).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("school not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch school")
	}
	return &school, nil
}

func (s *SchoolService) Update(t tenant.Context, in UpdateSchoolInput) (*model.School, error) {
	school, err := s.Get(t)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Website != nil {
		updates["website"] = *in.Website
	}
	if len(updates) == 0 {
		return school, nil
	}

	if err := s.db.Model(school).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to update school")
	}
	return s.Get(t)
}
