package model

import "time"

// School is the top-level organization record for a tenant.
type School struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AamarID   string    `json:"aamar_id" gorm:"index;size:64;not null"`
	Name      string    `json:"name" gorm:"size:150;not null"`
	Address   string    `json:"address" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:30"`
	Email     string    `json:"email" gorm:"size:255"`
	Website   string    `json:"website" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Branches []Branch `json:"branches,omitempty" gorm:"foreignKey:SchoolID"`
}

// Branch is a campus of a school. Code is unique within the tenant.
type Branch struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AamarID   string    `json:"aamar_id" gorm:"uniqueIndex:idx_branch_code;size:64;not null"`
	SchoolID  uint      `json:"school_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"size:150;not null"`
	Code      string    `json:"code" gorm:"uniqueIndex:idx_branch_code;size:20;not null"`
	Address   string    `json:"address" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:30"`
	Email     string    `json:"email" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	School  *School `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
	Classes []Class `json:"classes,omitempty" gorm:"foreignKey:BranchID"`
}
