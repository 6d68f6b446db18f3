package model

import "time"

// Class belongs to one branch and optionally has a homeroom teacher. The
// (aamar_id, name, branch_id, academic_year) tuple is unique.
type Class struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AamarID      string    `json:"aamar_id" gorm:"uniqueIndex:idx_class_tuple;size:64;not null"`
	Name         string    `json:"name" gorm:"uniqueIndex:idx_class_tuple;size:100;not null"`
	BranchID     uint      `json:"branch_id" gorm:"uniqueIndex:idx_class_tuple;not null"`
	AcademicYear string    `json:"academic_year" gorm:"uniqueIndex:idx_class_tuple;size:20;not null"`
	TeacherID    *uint     `json:"teacher_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Branch     *Branch     `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	Teacher    *Teacher    `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Sections   []Section   `json:"sections,omitempty" gorm:"foreignKey:ClassID"`
	Subjects   []Subject   `json:"subjects,omitempty" gorm:"foreignKey:ClassID"`
	Timetables []Timetable `json:"timetables,omitempty" gorm:"foreignKey:ClassID"`
}

// Section belongs to a class. Capacity is advisory: callers check occupancy
// before assigning students, the database does not enforce it.
type Section struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AamarID     string    `json:"aamar_id" gorm:"uniqueIndex:idx_section_name;size:64;not null"`
	ClassID     uint      `json:"class_id" gorm:"uniqueIndex:idx_section_name;not null"`
	Name        string    `json:"name" gorm:"uniqueIndex:idx_section_name;size:50;not null"`
	DisplayName string    `json:"display_name" gorm:"size:100"`
	Capacity    int       `json:"capacity" gorm:"default:40"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Class    *Class    `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Students []Student `json:"students,omitempty" gorm:"foreignKey:SectionID"`
}
