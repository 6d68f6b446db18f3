package model

import "time"

// Announcement audiences.
const (
	AudienceAll      = "all"
	AudienceTeachers = "teachers"
	AudienceStudents = "students"
	AudienceParents  = "parents"
	AudienceStaff    = "staff"
)

// Announcement is a tenant-wide or branch-scoped notice.
type Announcement struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AamarID     string    `json:"aamar_id" gorm:"index;size:64;not null"`
	BranchID    *uint     `json:"branch_id" gorm:"index"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	Audience    string    `json:"audience" gorm:"size:20;not null;default:'all'"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
