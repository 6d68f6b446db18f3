package model

import "time"

// Teacher wraps a User 1:1 with employment details. Subjects is a
// denormalized comma-separated list of subject names kept for display.
type Teacher struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	AamarID        string     `json:"aamar_id" gorm:"index;size:64;not null"`
	UserID         uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Qualification  string     `json:"qualification" gorm:"size:150"`
	Experience     string     `json:"experience" gorm:"size:100"`
	Specialization string     `json:"specialization" gorm:"size:100"`
	Subjects       string     `json:"subjects" gorm:"size:255"`
	Salary         float64    `json:"salary"`
	JoiningDate    *time.Time `json:"joining_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	User    *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Classes []Class `json:"classes,omitempty" gorm:"foreignKey:TeacherID"`
}
