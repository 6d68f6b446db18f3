package model

import "time"

// Timetable is one scheduled period for a class. Times are "HH:MM" strings;
// zero-padded 24h clock, so lexicographic comparison matches time order. The
// [StartTime, EndTime) interval must not overlap another entry for the same
// (aamar_id, class_id, day_of_week).
type Timetable struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AamarID   string    `json:"aamar_id" gorm:"index;size:64;not null"`
	ClassID   uint      `json:"class_id" gorm:"index;not null"`
	SubjectID uint      `json:"subject_id" gorm:"index;not null"`
	DayOfWeek int       `json:"day_of_week" gorm:"not null"`
	StartTime string    `json:"start_time" gorm:"size:5;not null"`
	EndTime   string    `json:"end_time" gorm:"size:5;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Class   *Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}
