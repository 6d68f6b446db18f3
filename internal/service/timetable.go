package service

import (
	"errors"
	"regexp"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// TimetableService owns scheduled periods. The write-time invariant is that
// the [start, end) interval of an entry never overlaps another entry for the
// same (tenant, class, day).
type TimetableService struct {
	db *gorm.DB
}

func NewTimetableService(db *gorm.DB) *TimetableService {
	return &TimetableService{db: db}
}

type CreateTimetableInput struct {
	ClassID   uint
	SubjectID uint
	DayOfWeek int
	StartTime string
	EndTime   string
}

type UpdateTimetableInput struct {
	SubjectID *uint
	DayOfWeek *int
	StartTime *string
	EndTime   *string
}

// TimetableStats aggregates tenant-wide timetable numbers.
type TimetableStats struct {
	TotalEntries   int64         `json:"total_entries"`
	EntriesPerDay  map[int]int64 `json:"entries_per_day"`
	ClassesCovered int64         `json:"classes_covered"`
}

func validInterval(start, end string) error {
	if !timeOfDay.MatchString(start) || !timeOfDay.MatchString(end) {
		return apperr.Validationf("times must be in HH:MM format")
	}
	// Zero-padded 24h strings order lexicographically.
	if start >= end {
		return apperr.Validationf("start time must be before end time")
	}
	return nil
}

// overlaps reports whether [aStart,aEnd) intersects [bStart,bEnd): a starts
// inside b, a ends inside b, or a contains b. Touching endpoints do not count.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	startsInside := aStart >= bStart && aStart < bEnd
	endsInside := aEnd > bStart && aEnd <= bEnd
	contains := aStart <= bStart && aEnd >= bEnd
	return startsInside || endsInside || contains
}

func (s *TimetableService) Create(t tenant.Context, in CreateTimetableInput) (*model.Timetable, error) {
	if in.ClassID == 0 || in.SubjectID == 0 {
		return nil, apperr.Validationf("class and subject are required")
	}
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return nil, apperr.Validationf("day of week must be between 0 and 6")
	}
	if err := validInterval(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	if err := s.checkRefs(t, in.ClassID, in.SubjectID); err != nil {
		return nil, err
	}
	if err := s.checkOverlap(t, in.ClassID, in.DayOfWeek, in.StartTime, in.EndTime, 0); err != nil {
		return nil, err
	}

	entry := model.Timetable{
		AamarID:   t.AamarID,
		ClassID:   in.ClassID,
		SubjectID: in.SubjectID,
		DayOfWeek: in.DayOfWeek,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to create timetable entry")
	}
	return &entry, nil
}

func (s *TimetableService) List(t tenant.Context, classID uint) ([]model.Timetable, error) {
	q := s.db.
		Preload("Class").
		Preload("Subject").
		Where("aamar_id = ?", t.AamarID)
	if classID != 0 {
		q = q.Where("class_id = ?", classID)
	}
	var entries []model.Timetable
	if err := q.Order("day_of_week, start_time").Find(&entries).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to list timetable")
	}
	return entries, nil
}

func (s *TimetableService) GetByID(t tenant.Context, id uint) (*model.Timetable, error) {
	var entry model.Timetable
	err := s.db.
		Preload("Class").
		Preload("Subject").
		Where("aamar_id = ? AND id = ?", t.AamarID, id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("timetable entry not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch timetable entry")
	}
	return &entry, nil
}

func (s *TimetableService) Update(t tenant.Context, id uint, in UpdateTimetableInput) (*model.Timetable, error) {
	entry, err := s.GetByID(t, id)
	if err != nil {
		return nil, err
	}

	day := entry.DayOfWeek
	start := entry.StartTime
	end := entry.EndTime
	scheduleChanged := false
	if in.DayOfWeek != nil {
		if *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
			return nil, apperr.Validationf("day of week must be between 0 and 6")
		}
		day = *in.DayOfWeek
		scheduleChanged = scheduleChanged || day != entry.DayOfWeek
	}
	if in.StartTime != nil {
		start = *in.StartTime
		scheduleChanged = scheduleChanged || start != entry.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
		scheduleChanged = scheduleChanged || end != entry.EndTime
	}
	if scheduleChanged {
		if err := validInterval(start, end); err != nil {
			return nil, err
		}
		// Compare against all other rows for the class and day.
		if err := s.checkOverlap(t, entry.ClassID, day, start, end, id); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"day_of_week": day,
		"start_time":  start,
		"end_time":    end,
	}
	if in.SubjectID != nil {
		if err := s.checkRefs(t, entry.ClassID, *in.SubjectID); err != nil {
			return nil, err
		}
		updates["subject_id"] = *in.SubjectID
	}
	if err := s.db.Model(entry).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to update timetable entry")
	}
	return s.GetByID(t, id)
}

func (s *TimetableService) Delete(t tenant.Context, id uint) error {
	if _, err := s.GetByID(t, id); err != nil {
		return err
	}
	if err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, id).
		Delete(&model.Timetable{}).Error; err != nil {
		return apperr.FromDB(err, "", "failed to delete timetable entry")
	}
	return nil
}

func (s *TimetableService) Stats(t tenant.Context) (*TimetableStats, error) {
	var entries []model.Timetable
	if err := s.db.Where("aamar_id = ?", t.AamarID).Find(&entries).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to compute timetable stats")
	}

	stats := TimetableStats{
		TotalEntries:  int64(len(entries)),
		EntriesPerDay: map[int]int64{},
	}
	classes := map[uint]struct{}{}
	for _, entry := range entries {
		stats.EntriesPerDay[entry.DayOfWeek]++
		classes[entry.ClassID] = struct{}{}
	}
	stats.ClassesCovered = int64(len(classes))
	return &stats, nil
}

func (s *TimetableService) checkRefs(t tenant.Context, classID, subjectID uint) error {
	var count int64
	if err := s.db.Model(&model.Class{}).
		Where("aamar_id = ? AND id = ?", t.AamarID, classID).
		Count(&count).Error; err != nil {
		return apperr.FromDB(err, "", "failed to validate class")
	}
	if count == 0 {
		return apperr.Validationf("class does not belong to this school")
	}
	if err := s.db.Model(&model.Subject{}).
		Where("aamar_id = ? AND id = ?", t.AamarID, subjectID).
		Count(&count).Error; err != nil {
		return apperr.FromDB(err, "", "failed to validate subject")
	}
	if count == 0 {
		return apperr.Validationf("subject does not belong to this school")
	}
	return nil
}

// checkOverlap rejects the candidate interval when it intersects any existing
// entry for the same class and day, excluding excludeID on updates.
func (s *TimetableService) checkOverlap(t tenant.Context, classID uint, day int, start, end string, excludeID uint) error {
	q := s.db.
		Where("aamar_id = ? AND class_id = ? AND day_of_week = ?", t.AamarID, classID, day)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var existing []model.Timetable
	if err := q.Find(&existing).Error; err != nil {
		return apperr.FromDB(err, "", "failed to validate timetable slot")
	}
	for _, other := range existing {
		if overlaps(start, end, other.StartTime, other.EndTime) {
			return apperr.Conflictf("timetable slot overlaps an existing entry").
				WithDetail("conflicts with %s-%s", other.StartTime, other.EndTime)
		}
	}
	return nil
}
