package model

import "time"

// Staff wraps a User 1:1 for non-teaching employees.
type Staff struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	AamarID     string     `json:"aamar_id" gorm:"index;size:64;not null"`
	UserID      uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Designation string     `json:"designation" gorm:"size:100"`
	Department  string     `json:"department" gorm:"size:100"`
	Salary      float64    `json:"salary"`
	JoiningDate *time.Time `json:"joining_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
