package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// AnnouncementService owns tenant- and branch-scoped notices.
type AnnouncementService struct {
	db *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

type CreateAnnouncementInput struct {
	Title    string
	Content  string
	Audience string
	BranchID *uint
}

type UpdateAnnouncementInput struct {
	Title    *string
	Content  *string
	Audience *string
}

func validAudience(audience string) bool {
	switch audience {
	case model.AudienceAll, model.AudienceTeachers, model.AudienceStudents,
		model.AudienceParents, model.AudienceStaff:
		return true
	}
	return false
}

func (s *AnnouncementService) Create(t tenant.Context, in CreateAnnouncementInput) (*model.Announcement, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" || in.Content == "" {
		return nil, apperr.Validationf("title and content are required")
	}
	if in.Audience == "" {
		in.Audience = model.AudienceAll
	}
	if !validAudience(in.Audience) {
		return nil, apperr.Validationf("invalid audience value")
	}
	if in.BranchID != nil {
		var count int64
		if err := s.db.Model(&model.Branch{}).
			Where("aamar_id = ? AND id = ?", t.AamarID, *in.BranchID).
			Count(&count).Error; err != nil {
			return nil, apperr.FromDB(err, "", "failed to create announcement")
		}
		if count == 0 {
			return nil, apperr.Validationf("branch does not belong to this school")
		}
	}

	announcement := model.Announcement{
		AamarID:     t.AamarID,
		BranchID:    in.BranchID,
		Title:       in.Title,
		Content:     in.Content,
		Audience:    in.Audience,
		PublishedAt: nowFunc(),
	}
	if err := s.db.Create(&announcement).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to create announcement")
	}
	return &announcement, nil
}

// List returns announcements newest first, optionally filtered to one branch
// (branch-scoped notices plus tenant-wide ones).
func (s *AnnouncementService) List(t tenant.Context, branchID uint) ([]model.Announcement, error) {
	q := s.db.Where("aamar_id = ?", t.AamarID)
	if branchID != 0 {
		q = q.Where("branch_id IS NULL OR branch_id = ?", branchID)
	}
	var announcements []model.Announcement
	if err := q.Order("published_at DESC").Find(&announcements).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to list announcements")
	}
	return announcements, nil
}

func (s *AnnouncementService) GetByID(t tenant.Context, id uint) (*model.Announcement, error) {
	var announcement model.Announcement
	err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, id).First(&announcement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("announcement not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch announcement")
	}
	return &announcement, nil
}

func (s *AnnouncementService) Update(t tenant.Context, id uint, in UpdateAnnouncementInput) (*model.Announcement, error) {
	announcement, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Validationf("title cannot be empty")
		}
		updates["title"] = title
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return nil, apperr.Validationf("content cannot be empty")
		}
		updates["content"] = content
	}
	if in.Audience != nil {
		if !validAudience(*in.Audience) {
			return nil, apperr.Validationf("invalid audience value")
		}
		updates["audience"] = *in.Audience
	}
	if len(updates) == 0 {
		return announcement, nil
	}

	if err := s.db.Model(announcement).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to update announcement")
	}
	return s.GetByID(t, id)
}

func (s *AnnouncementService) Delete(t tenant.Context, id uint) error {
	if _, err := s.GetByID(t, id); err != nil {
		return err
	}
	if err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, id).
		Delete(&model.Announcement{}).Error; err != nil {
		return apperr.FromDB(err, "", "failed to delete announcement")
	}
	return nil
}
