package model

import "time"

// Fee statuses.
const (
	FeePending = "pending"
	FeePaid    = "paid"
)

// Fee is one charge against a student.
type Fee struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	AamarID   string     `json:"aamar_id" gorm:"index;size:64;not null"`
	StudentID uint       `json:"student_id" gorm:"index;not null"`
	Title     string     `json:"title" gorm:"size:150;not null"`
	Amount    float64    `json:"amount" gorm:"not null"`
	DueDate   *time.Time `json:"due_date"`
	Status    string     `json:"status" gorm:"size:10;not null;default:'pending'"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
