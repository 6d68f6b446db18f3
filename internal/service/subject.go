package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// SubjectService owns subjects and their chapter/lesson tree. Subject code is
// unique within (tenant, class); deleting a subject that still has content is
// blocked unless forced, in which case the whole tree goes in one transaction.
type SubjectService struct {
	db *gorm.DB
}

func NewSubjectService(db *gorm.DB) *SubjectService {
	return &SubjectService{db: db}
}

type CreateSubjectInput struct {
	ClassID     uint
	Name        string
	Code        string
	Description string
}

type UpdateSubjectInput struct {
	Name        *string
	Code        *string
	Description *string
}

// SubjectDeleteResult reports what a forced delete removed.
type SubjectDeleteResult struct {
	DeletedLessons    int64 `json:"deleted_lessons"`
	DeletedChapters   int64 `json:"deleted_chapters"`
	DeletedTimetables int64 `json:"deleted_timetables"`
}

func (s *SubjectService) Create(t tenant.Context, in CreateSubjectInput) (*model.Subject, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Name == "" || in.Code == "" || in.ClassID == 0 {
		return nil, apperr.Validationf("name, code and class are required")
	}

	var class model.Class
	err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, in.ClassID).First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validationf("class does not belong to this school")
		}
		return nil, apperr.FromDB(err, "", "failed to create subject")
	}

	var count int64
	if err := s.db.Model(&model.Subject{}).
		Where("aamar_id = ? AND class_id = ? AND code = ?", t.AamarID, in.ClassID, in.Code).
		Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, "subject code already exists", "failed to create subject")
	}
	if count > 0 {
		return nil, apperr.Conflictf("subject code already exists").
			WithDetail("code %q is already used in this class", in.Code)
	}

	subject := model.Subject{
		AamarID:     t.AamarID,
		SchoolID:    t.SchoolID,
		ClassID:     in.ClassID,
		Name:        in.Name,
		Code:        in.Code,
		Description: in.Description,
	}
	if err := s.db.Create(&subject).Error; err != nil {
		return nil, apperr.FromDB(err, "subject code already exists", "failed to create subject")
	}
	return &subject, nil
}

func (s *SubjectService) List(t tenant.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := s.db.
		Preload("Class").
		Where("aamar_id = ?", t.AamarID).
		Order("class_id, name").
		Find(&subjects).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list subjects")
	}
	return subjects, nil
}

func (s *SubjectService) GetByID(t tenant.Context, id uint) (*model.Subject, error) {
	var subject model.Subject
	err := s.db.
		Preload("Class").
		Preload("Chapters.Lessons").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("subject not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch subject")
	}
	return &subject, nil
}

func (s *SubjectService) Update(t tenant.Context, id uint, in UpdateSubjectInput) (*model.Subject, error) {
	subject, err := s.GetByID(t, id)
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
		if code != subject.Code {
			var count int64
			if err := s.db.Model(&model.Subject{}).
				Where("aamar_id = ? AND class_id = ? AND code = ? AND id <> ?",
					t.AamarID, subject.ClassID, code, id).
				Count(&count).Error; err != nil {
				return nil, apperr.FromDB(err, "subject code already exists", "failed to update subject")
			}
			if count > 0 {
				return nil, apperr.Conflictf("subject code already exists")
			}
		}
		updates["code"] = code
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) == 0 {
		return subject, nil
	}

	if err := s.db.Model(subject).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "subject code already exists", "failed to update subject")
	}
	return s.GetByID(t, id)
}

// Delete removes a subject. Without force it is blocked while chapters,
// lessons or timetable entries still reference the subject. With force the
// tree is removed inside one transaction, lessons first, and the counts of
// each deleted collection are returned for the caller to report.
func (s *SubjectService) Delete(t tenant.Context, id uint, force bool) (*SubjectDeleteResult, error) {
	subject, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}

	var chapterIDs []uint
	for _, chapter := range subject.Chapters {
		chapterIDs = append(chapterIDs, chapter.ID)
	}

	var lessons int64
	if len(chapterIDs) > 0 {
		if err := s.db.Model(&model.Lesson{}).
			Where("aamar_id = ? AND chapter_id IN ?", t.AamarID, chapterIDs).
			Count(&lessons).Error; err != nil {
			return nil, apperr.FromDB(err, "", "failed to delete subject")
		}
	}
	var timetables int64
	if err := s.db.Model(&model.Timetable{}).
		Where("aamar_id = ? AND subject_id = ?", t.AamarID, id).
		Count(&timetables).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to delete subject")
	}

	hasContent := len(subject.Chapters) > 0 || lessons > 0 || timetables > 0
	if hasContent && !force {
		return nil, apperr.Preconditionf("subject has chapters, lessons or timetables").
			WithDetail("%d chapters, %d lessons, %d timetable entries", len(subject.Chapters), lessons, timetables)
	}

	result := SubjectDeleteResult{
		DeletedLessons:    lessons,
		DeletedChapters:   int64(len(subject.Chapters)),
		DeletedTimetables: timetables,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(chapterIDs) > 0 {
			if err := tx.Where("aamar_id = ? AND chapter_id IN ?", t.AamarID, chapterIDs).
				Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
			if err := tx.Where("aamar_id = ? AND subject_id = ?", t.AamarID, id).
				Delete(&model.Chapter{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("aamar_id = ? AND subject_id = ?", t.AamarID, id).
			Delete(&model.Timetable{}).Error; err != nil {
			return err
		}
		return tx.Where("aamar_id = ? AND id = ?", t.AamarID, id).
			Delete(&model.Subject{}).Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to delete subject")
	}
	return &result, nil
}

// AddChapter appends a chapter to a subject.
func (s *SubjectService) AddChapter(t tenant.Context, subjectID uint, name string, orderIndex int) (*model.Chapter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validationf("chapter name is required")
	}
	if _, err := s.GetByID(t, subjectID); err != nil {
		return nil, err
	}
	chapter := model.Chapter{
		AamarID:    t.AamarID,
		SubjectID:  subjectID,
		Name:       name,
		OrderIndex: orderIndex,
	}
	if err := s.db.Create(&chapter).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to create chapter")
	}
	return &chapter, nil
}

func (s *SubjectService) getChapter(t tenant.Context, id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, id).First(&chapter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("chapter not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch chapter")
	}
	return &chapter, nil
}

func (s *SubjectService) UpdateChapter(t tenant.Context, id uint, name *string, orderIndex *int) (*model.Chapter, error) {
	chapter, err := s.getChapter(t, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperr.Validationf("chapter name cannot be empty")
		}
		updates["name"] = trimmed
	}
	if orderIndex != nil {
		updates["order_index"] = *orderIndex
	}
	if len(updates) == 0 {
		return chapter, nil
	}

	if err := s.db.Model(chapter).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to update chapter")
	}
	return s.getChapter(t, id)
}

// DeleteChapter removes a chapter and its lessons in one transaction.
func (s *SubjectService) DeleteChapter(t tenant.Context, id uint) error {
	if _, err := s.getChapter(t, id); err != nil {
		return err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("aamar_id = ? AND chapter_id = ?", t.AamarID, id).
			Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Where("aamar_id = ? AND id = ?", t.AamarID, id).
			Delete(&model.Chapter{}).Error
	})
	if err != nil {
		return apperr.FromDB(err, "", "failed to delete chapter")
	}
	return nil
}

func (s *SubjectService) UpdateLesson(t tenant.Context, id uint, name, content *string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, id).First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("lesson not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch lesson")
	}

	updates := map[string]interface{}{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperr.Validationf("lesson name cannot be empty")
		}
		updates["name"] = trimmed
	}
	if content != nil {
		updates["content"] = *content
	}
	if len(updates) == 0 {
		return &lesson, nil
	}

	if err := s.db.Model(&lesson).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to update lesson")
	}
	return &lesson, nil
}

func (s *SubjectService) DeleteLesson(t tenant.Context, id uint) error {
	result := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, id).Delete(&model.Lesson{})
	if result.Error != nil {
		return apperr.FromDB(result.Error, "", "failed to delete lesson")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("lesson not found")
	}
	return nil
}

// AddLesson appends a lesson to a chapter.
func (s *SubjectService) AddLesson(t tenant.Context, chapterID uint, name, content string) (*model.Lesson, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validationf("lesson name is required")
	}
	if _, err := s.getChapter(t, chapterID); err != nil {
		return nil, err
	}
	lesson := model.Lesson{
		AamarID:   t.AamarID,
		ChapterID: chapterID,
		Name:      name,
		Content:   content,
	}
	if err := s.db.Create(&lesson).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to create lesson")
	}
	return &lesson, nil
}
