package model

import "time"

// Subject belongs to a school and a class. Code is unique within the class.
type Subject struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AamarID     string    `json:"aamar_id" gorm:"uniqueIndex:idx_subject_code;size:64;not null"`
	SchoolID    uint      `json:"school_id" gorm:"index"`
	ClassID     uint      `json:"class_id" gorm:"uniqueIndex:idx_subject_code;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Code        string    `json:"code" gorm:"uniqueIndex:idx_subject_code;size:20;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Class      *Class      `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Chapters   []Chapter   `json:"chapters,omitempty" gorm:"foreignKey:SubjectID"`
	Timetables []Timetable `json:"timetables,omitempty" gorm:"foreignKey:SubjectID"`
}

// Chapter groups lessons within a subject.
type Chapter struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	AamarID    string    `json:"aamar_id" gorm:"index;size:64;not null"`
	SubjectID  uint      `json:"subject_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"size:150;not null"`
	OrderIndex int       `json:"order_index" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ChapterID"`
}

// Lesson is a single teachable unit inside a chapter.
type Lesson struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AamarID   string    `json:"aamar_id" gorm:"index;size:64;not null"`
	ChapterID uint      `json:"chapter_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"size:150;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
