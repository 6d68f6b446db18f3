package model

import "time"

// Student wraps a User 1:1. RollNumber is unique within the section for the
// tenant; BranchID is derived from the section's class, never from the caller.
type Student struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	AamarID       string     `json:"aamar_id" gorm:"uniqueIndex:idx_student_roll;size:64;not null"`
	UserID        uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	RollNumber    string     `json:"roll_number" gorm:"uniqueIndex:idx_student_roll;size:20;not null"`
	SectionID     uint       `json:"section_id" gorm:"uniqueIndex:idx_student_roll;not null"`
	ClassID       uint       `json:"class_id" gorm:"index;not null"`
	ParentID      *uint      `json:"parent_id" gorm:"index"`
	AdmissionDate *time.Time `json:"admission_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Section *Section `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	Class   *Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Parent  *Parent  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}
