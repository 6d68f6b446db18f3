package model

import (
	"time"
)

// User roles. One identity row per person regardless of role.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
	RoleStaff   = "staff"
)

// User is the shared identity row for every person in a school. Email is
// globally unique across tenants; everything else is scoped by AamarID.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AamarID   string    `json:"aamar_id" gorm:"index;size:64;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	FirstName string    `json:"first_name" gorm:"size:100;not null"`
	LastName  string    `json:"last_name" gorm:"size:100;not null"`
	Role      string    `json:"role" gorm:"size:20;index;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	SchoolID  uint      `json:"school_id" gorm:"index"`
	BranchID  uint      `json:"branch_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Profile holds the optional personal details of a user. All fields are
// nullable; an update that omits a field clears it rather than leaving it
// untouched.
type Profile struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	UserID             uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Phone              *string    `json:"phone" gorm:"size:30"`
	Address            *string    `json:"address" gorm:"size:255"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	Gender             *string    `json:"gender" gorm:"size:10"`
	BloodGroup         *string    `json:"blood_group" gorm:"size:5"`
	Nationality        *string    `json:"nationality" gorm:"size:50"`
	Religion           *string    `json:"religion" gorm:"size:50"`
	BirthCertificateNo *string    `json:"birth_certificate_no" gorm:"size:50"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
