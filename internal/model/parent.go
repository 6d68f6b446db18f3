package model

import "time"

// Parent relation values.
const (
	RelationFather   = "Father"
	RelationMother   = "Mother"
	RelationGuardian = "Guardian"
)

// Parent wraps a User 1:1 and owns zero or more students.
type Parent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AamarID   string    `json:"aamar_id" gorm:"index;size:64;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Relation  string    `json:"relation" gorm:"size:20;not null;default:'Guardian'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Students []Student `json:"students,omitempty" gorm:"foreignKey:ParentID"`
}
