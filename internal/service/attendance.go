package service

import (
	"regexp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

var dateYYYYMMDD = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// AttendanceService records daily marks per student. Marking a section is an
// upsert: re-marking a day replaces the earlier status.
type AttendanceService struct {
	db *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db}
}

// AttendanceMark is one student's status within a bulk mark.
type AttendanceMark struct {
	StudentID uint   `json:"student_id"`
	Status    string `json:"status"`
	Remarks   string `json:"remarks"`
}

// AttendanceStats summarizes marks for one scope.
type AttendanceStats struct {
	Present int64   `json:"present"`
	Absent  int64   `json:"absent"`
	Late    int64   `json:"late"`
	Excused int64   `json:"excused"`
	Rate    float64 `json:"rate"`
}

func validStatus(status string) bool {
	switch status {
	case model.AttendancePresent, model.AttendanceAbsent, model.AttendanceLate, model.AttendanceExcused:
		return true
	}
	return false
}

// MarkSection records marks for a section and date in one transaction. Every
// student must belong to the section; an existing mark for the day is updated.
func (s *AttendanceService) MarkSection(t tenant.Context, sectionID uint, date string, marks []AttendanceMark) error {
	if sectionID == 0 {
		return apperr.Validationf("section is required")
	}
	if !dateYYYYMMDD.MatchString(date) {
		return apperr.Validationf("date must be in YYYY-MM-DD format")
	}
	if len(marks) == 0 {
		return apperr.Validationf("no attendance marks supplied")
	}
	for _, mark := range marks {
		if !validStatus(mark.Status) {
			return apperr.Validationf("invalid attendance status %q", mark.Status)
		}
	}

	var sectionCount int64
	if err := s.db.Model(&model.Section{}).
		Where("aamar_id = ? AND id = ?", t.AamarID, sectionID).
		Count(&sectionCount).Error; err != nil {
		return apperr.FromDB(err, "", "failed to mark attendance")
	}
	if sectionCount == 0 {
		return apperr.Validationf("section does not belong to this school")
	}

	var enrolled []uint
	if err := s.db.Model(&model.Student{}).
		Where("aamar_id = ? AND section_id = ?", t.AamarID, sectionID).
		Pluck("id", &enrolled).Error; err != nil {
		return apperr.FromDB(err, "", "failed to mark attendance")
	}
	enrolledSet := make(map[uint]struct{}, len(enrolled))
	for _, id := range enrolled {
		enrolledSet[id] = struct{}{}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, mark := range marks {
			if _, ok := enrolledSet[mark.StudentID]; !ok {
				return apperr.Validationf("student %d is not enrolled in this section", mark.StudentID)
			}
			row := model.Attendance{
				AamarID:   t.AamarID,
				StudentID: mark.StudentID,
				SectionID: sectionID,
				Date:      date,
				Status:    mark.Status,
				Remarks:   mark.Remarks,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "aamar_id"}, {Name: "student_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "remarks", "section_id"}),
			}).Create(&row).Error
			if err != nil {
				return apperr.FromDB(err, "", "failed to mark attendance")
			}
		}
		return nil
	})
	if err != nil {
		return apperr.From(err)
	}
	return nil
}

func (s *AttendanceService) ListBySection(t tenant.Context, sectionID uint, date string) ([]model.Attendance, error) {
	if !dateYYYYMMDD.MatchString(date) {
		return nil, apperr.Validationf("date must be in YYYY-MM-DD format")
	}
	var rows []model.Attendance
	err := s.db.
		Preload("Student.User").
		Where("aamar_id = ? AND section_id = ? AND date = ?", t.AamarID, sectionID, date).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list attendance")
	}
	return rows, nil
}

func (s *AttendanceService) ListByStudent(t tenant.Context, studentID uint, from, to string) ([]model.Attendance, error) {
	q := s.db.Where("aamar_id = ? AND student_id = ?", t.AamarID, studentID)
	if from != "" {
		if !dateYYYYMMDD.MatchString(from) {
			return nil, apperr.Validationf("from must be in YYYY-MM-DD format")
		}
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		if !dateYYYYMMDD.MatchString(to) {
			return nil, apperr.Validationf("to must be in YYYY-MM-DD format")
		}
		q = q.Where("date <= ?", to)
	}
	var rows []model.Attendance
	if err := q.Order("date").Find(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to list attendance")
	}
	return rows, nil
}

// StatsForStudent summarizes a student's marks; Rate is present/(all) in
// percent, 0 when no marks exist.
func (s *AttendanceService) StatsForStudent(t tenant.Context, studentID uint) (*AttendanceStats, error) {
	var rows []model.Attendance
	err := s.db.
		Where("aamar_id = ? AND student_id = ?", t.AamarID, studentID).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to compute attendance stats")
	}

	stats := AttendanceStats{}
	for _, row := range rows {
		switch row.Status {
		case model.AttendancePresent:
			stats.Present++
		case model.AttendanceAbsent:
			stats.Absent++
		case model.AttendanceLate:
			stats.Late++
		case model.AttendanceExcused:
			stats.Excused++
		}
	}
	total := stats.Present + stats.Absent + stats.Late + stats.Excused
	if total > 0 {
		stats.Rate = float64(stats.Present) / float64(total) * 100
	}
	return &stats, nil
}
