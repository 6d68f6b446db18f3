package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// ParentService owns parent CRUD.
type ParentService struct {
	db *gorm.DB
}

func NewParentService(db *gorm.DB) *ParentService {
	return &ParentService{db: db}
}

type CreateParentInput struct {
	Person   PersonInput
	Relation string
}

type UpdateParentInput struct {
	Person   PersonInput
	Relation *string
}

func validRelation(relation string) bool {
	switch relation {
	case model.RelationFather, model.RelationMother, model.RelationGuardian:
		return true
	}
	return false
}

func (s *ParentService) Create(t tenant.Context, in CreateParentInput) (*model.Parent, error) {
	if in.Relation == "" {
		in.Relation = model.RelationGuardian
	}
	if !validRelation(in.Relation) {
		return nil, apperr.Validationf("invalid relation value")
	}

	var parent *model.Parent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := createUserWithProfile(tx, t, model.RoleParent, in.Person)
		if err != nil {
			return err
		}
		parent = &model.Parent{
			AamarID:  t.AamarID,
			UserID:   user.ID,
			Relation: in.Relation,
		}
		if err := tx.Create(parent).Error; err != nil {
			return apperr.FromDB(err, "", "failed to create parent")
		}
		parent.User = user
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return parent, nil
}

func (s *ParentService) List(t tenant.Context) ([]model.Parent, error) {
	var parents []model.Parent
	err := s.db.
		Preload("User.Profile").
		Preload("Students.User").
		Where("aamar_id = ?", t.AamarID).
		Find(&parents).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list parents")
	}
	return parents, nil
}

func (s *ParentService) GetByID(t tenant.Context, id uint) (*model.Parent, error) {
	var parent model.Parent
	err := s.db.
		Preload("User.Profile").
		Preload("Students.User").
		Preload("Students.Section").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("parent not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch parent")
	}
	return &parent, nil
}

func (s *ParentService) Update(t tenant.Context, id uint, in UpdateParentInput) (*model.Parent, error) {
	parent, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}
	if in.Relation != nil && !validRelation(*in.Relation) {
		return nil, apperr.Validationf("invalid relation value")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := updateUserIdentity(tx, parent.UserID, in.Person); err != nil {
			return err
		}
		if in.Relation != nil {
			if err := tx.Model(parent).Update("relation", *in.Relation).Error; err != nil {
				return apperr.FromDB(err, "", "failed to update parent")
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return s.GetByID(t, id)
}

// Delete removes a parent and their user row. Blocked while students are
// still linked to the parent.
func (s *ParentService) Delete(t tenant.Context, id uint) error {
	parent, err := s.GetByID(t, id)
	if err != nil {
		return err
	}
	if len(parent.Students) > 0 {
		return apperr.Preconditionf("parent has students").
			WithDetail("%d students are linked to this parent", len(parent.Students))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("aamar_id = ? AND id = ?", t.AamarID, id).
			Delete(&model.Parent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", parent.UserID).Delete(&model.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", parent.UserID).Delete(&model.User{}).Error
	})
	if err != nil {
		return apperr.FromDB(err, "", "failed to delete parent")
	}
	return nil
}

func (s *ParentService) Search(t tenant.Context, query string) ([]model.Parent, error) {
	kw := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var parents []model.Parent
	err := s.db.
		Preload("User.Profile").
		Joins("JOIN users ON users.id = parents.user_id").
		Where("parents.aamar_id = ?", t.AamarID).
		Where("LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.email) LIKE ?",
			kw, kw, kw).
		Find(&parents).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to search parents")
	}
	return parents, nil
}
