package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// BranchService owns branch CRUD. Code is unique within the tenant.
type BranchService struct {
	db *gorm.DB
}

func NewBranchService(db *gorm.DB) *BranchService {
	return &BranchService{db: db}
}

type CreateBranchInput struct {
	Name    string
	Code    string
	Address string
	Phone   string
	Email   string
}

type UpdateBranchInput struct {
	Name    *string
	Code    *string
	Address *string
	Phone   *string
	Email   *string
}

func (s *BranchService) Create(t tenant.Context, in CreateBranchInput) (*model.Branch, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Name == "" || in.Code == "" {
		return nil, apperr.Validationf("name and code are required")
	}

	var count int64
	if err := s.db.Model(&model.Branch{}).
		Where("aamar_id = ? AND code = ?", t.AamarID, in.Code).
		Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, "branch code already exists", "failed to create branch")
	}
	if count > 0 {
		return nil, apperr.Conflictf("branch code already exists")
	}

	branch := model.Branch{
		AamarID:  t.AamarID,
		SchoolID: t.SchoolID,
		Name:     in.Name,
		Code:     in.Code,
		Address:  in.Address,
		Phone:    in.Phone,
		Email:    in.Email,
	}
	if err := s.db.Create(&branch).Error; err != nil {
		return nil, apperr.FromDB(err, "branch code already exists", "failed to create branch")
	}
	return &branch, nil
}

func (s *BranchService) List(t tenant.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := s.db.
		Preload("Classes").
		Where("aamar_id = ?", t.AamarID).
		Order("name").
		Find(&branches).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list branches")
	}
	return branches, nil
}

func (s *BranchService) GetByID(t tenant.Context, id uint) (*model.Branch, error) {
	var branch model.Branch
	err := s.db.
		Preload("School").
		Preload("Classes").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&branch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("branch not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch branch")
	}
	return &branch, nil
}

func (s *BranchService) Update(t tenant.Context, id uint, in UpdateBranchInput) (*model.Branch, error) {
	branch, err := s.GetByID(t, id)
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
	if in.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*in.Code))
		if code == "" {
			return nil, apperr.Validationf("code cannot be empty")
		}
		if code != branch.Code {
			var count int64
			if err := s.db.Model(&model.Branch{}).
				Where("aamar_id = ? AND code = ? AND id <> ?", t.AamarID, code, id).
				Count(&count).Error; err != nil {
				return nil, apperr.FromDB(err, "branch code already exists", "failed to update branch")
			}
			if count > 0 {
				return nil, apperr.Conflictf("branch code already exists")
			}
		}
		updates["code"] = code
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
	if len(updates) == 0 {
		return branch, nil
	}

	if err := s.db.Model(branch).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "branch code already exists", "failed to update branch")
	}
	return s.GetByID(t, id)
}

// Delete removes a branch unless classes or users are still attached.
func (s *BranchService) Delete(t tenant.Context, id uint) error {
	branch, err := s.GetByID(t, id)
	if err != nil {
		return err
	}
	if len(branch.Classes) > 0 {
		return apperr.Preconditionf("branch has classes").
			WithDetail("%d classes belong to this branch", len(branch.Classes))
	}

	var users int64
	if err := s.db.Model(&model.User{}).
		Where("aamar_id = ? AND branch_id = ?", t.AamarID, id).
		Count(&users).Error; err != nil {
		return apperr.FromDB(err, "", "failed to delete branch")
	}
	if users > 0 {
		return apperr.Preconditionf("branch has users")
	}

	if err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, id).
		Delete(&model.Branch{}).Error; err != nil {
		return apperr.FromDB(err, "", "failed to delete branch")
	}
	return nil
}
