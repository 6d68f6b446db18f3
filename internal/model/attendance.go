package model

import "time"

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Attendance is one student's mark for one day. One row per
// (aamar_id, student_id, date); re-marking the same day updates the row.
type Attendance struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AamarID   string    `json:"aamar_id" gorm:"uniqueIndex:idx_attendance_day;size:64;not null"`
	StudentID uint      `json:"student_id" gorm:"uniqueIndex:idx_attendance_day;not null"`
	SectionID uint      `json:"section_id" gorm:"index;not null"`
	Date      string    `json:"date" gorm:"uniqueIndex:idx_attendance_day;size:10;not null"`
	Status    string    `json:"status" gorm:"size:10;not null"`
	Remarks   string    `json:"remarks" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
