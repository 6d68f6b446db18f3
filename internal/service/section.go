package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// SectionService owns section CRUD. Sections belong to a class; the name is
// unique within (tenant, class) and capacity is advisory.
type SectionService struct {
	db *gorm.DB
}

func NewSectionService(db *gorm.DB) *SectionService {
	return &SectionService{db: db}
}

type CreateSectionInput struct {
	ClassID     uint
	Name        string
	DisplayName string
	Capacity    int
}

type UpdateSectionInput struct {
	Name        *string
	DisplayName *string
	Capacity    *int
}

// SectionOccupancy pairs a section with its enrollment for capacity checks.
type SectionOccupancy struct {
	Section    model.Section `json:"section"`
	Enrolled   int           `json:"enrolled"`
	HasVacancy bool          `json:"has_vacancy"`
}

func (s *SectionService) Create(t tenant.Context, in CreateSectionInput) (*model.Section, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.ClassID == 0 {
		return nil, apperr.Validationf("name and class are required")
	}

	var classCount int64
	if err := s.db.Model(&model.Class{}).
		Where("aamar_id = ? AND id = ?", t.AamarID, in.ClassID).
		Count(&classCount).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to create section")
	}
	if classCount == 0 {
		return nil, apperr.Validationf("class does not belong to this school")
	}

	var count int64
	if err := s.db.Model(&model.Section{}).
		Where("aamar_id = ? AND class_id = ? AND name = ?", t.AamarID, in.ClassID, in.Name).
		Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, "section already exists", "failed to create section")
	}
	if count > 0 {
		return nil, apperr.Conflictf("section already exists").
			WithDetail("section %q already exists in this class", in.Name)
	}

	if in.Capacity <= 0 {
		in.Capacity = 40
	}
	if in.DisplayName == "" {
		in.DisplayName = in.Name
	}
	section := model.Section{
		AamarID:     t.AamarID,
		ClassID:     in.ClassID,
		Name:        in.Name,
		DisplayName: in.DisplayName,
		Capacity:    in.Capacity,
	}
	if err := s.db.Create(&section).Error; err != nil {
		return nil, apperr.FromDB(err, "section already exists", "failed to create section")
	}
	return &section, nil
}

func (s *SectionService) List(t tenant.Context) ([]model.Section, error) {
	var sections []model.Section
	err := s.db.
		Preload("Class.Branch").
		Where("aamar_id = ?", t.AamarID).
		Order("class_id, name").
		Find(&sections).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list sections")
	}
	return sections, nil
}

func (s *SectionService) GetByID(t tenant.Context, id uint) (*model.Section, error) {
	var section model.Section
	err := s.db.
		Preload("Class.Branch").
		Preload("Students.User").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("section not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch section")
	}
	return &section, nil
}

func (s *SectionService) ListByClass(t tenant.Context, classID uint) ([]model.Section, error) {
	var sections []model.Section
	err := s.db.
		Preload("Students").
		Where("aamar_id = ? AND class_id = ?", t.AamarID, classID).
		Order("name").
		Find(&sections).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list sections")
	}
	return sections, nil
}

// ListWithOccupancy returns sections of a class with enrollment counts so
// callers can apply the advisory capacity check before assigning students.
func (s *SectionService) ListWithOccupancy(t tenant.Context, classID uint) ([]SectionOccupancy, error) {
	sections, err := s.ListByClass(t, classID)
	if err != nil {
		return nil, err
	}
	out := make([]SectionOccupancy, 0, len(sections))
	for _, section := range sections {
		enrolled := len(section.Students)
		section.Students = nil
		out = append(out, SectionOccupancy{
			Section:    section,
			Enrolled:   enrolled,
			HasVacancy: enrolled < section.Capacity,
		})
	}
	return out, nil
}

func (s *SectionService) Update(t tenant.Context, id uint, in UpdateSectionInput) (*model.Section, error) {
	section, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		if name != section.Name {
			var count int64
			if err := s.db.Model(&model.Section{}).
				Where("aamar_id = ? AND class_id = ? AND name = ? AND id <> ?",
					t.AamarID, section.ClassID, name, id).
				Count(&count).Error; err != nil {
				return nil, apperr.FromDB(err, "section already exists", "failed to update section")
			}
			if count > 0 {
				return nil, apperr.Conflictf("section already exists")
			}
		}
		updates["name"] = name
	}
	if in.DisplayName != nil {
		updates["display_name"] = *in.DisplayName
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return nil, apperr.Validationf("capacity must be positive")
		}
		updates["capacity"] = *in.Capacity
	}
	if len(updates) == 0 {
		return section, nil
	}

	if err := s.db.Model(section).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "section already exists", "failed to update section")
	}
	return s.GetByID(t, id)
}

// NextRollNumber previews the roll number the next student in the section
// would receive.
func (s *SectionService) NextRollNumber(t tenant.Context, id uint) (string, error) {
	var count int64
	if err := s.db.Model(&model.Section{}).
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		Count(&count).Error; err != nil {
		return "", apperr.FromDB(err, "", "failed to generate roll number")
	}
	if count == 0 {
		return "", apperr.NotFoundf("section not found")
	}
	return GenerateRollNumber(s.db, t, id)
}

// Delete removes a section unless students are still enrolled in it.
func (s *SectionService) Delete(t tenant.Context, id uint) error {
	section, err := s.GetByID(t, id)
	if err != nil {
		return err
	}
	if len(section.Students) > 0 {
		return apperr.Preconditionf("section has students").
			WithDetail("%d students are enrolled in this section", len(section.Students))
	}
	if err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, id).
		Delete(&model.Section{}).Error; err != nil {
		return apperr.FromDB(err, "", "failed to delete section")
	}
	return nil
}
