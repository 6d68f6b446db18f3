package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"starts inside", "09:30", "10:30", "09:00", "10:00", true},
		{"ends inside", "08:30", "09:30", "09:00", "10:00", true},
		{"contains", "08:00", "11:00", "09:00", "10:00", true},
		{"contained", "09:15", "09:45", "09:00", "10:00", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"adjacent after", "10:00", "11:00", "09:00", "10:00", false},
		{"adjacent before", "08:00", "09:00", "09:00", "10:00", false},
		{"disjoint", "11:00", "12:00", "09:00", "10:00", false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestTimetableCreate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewTimetableService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	subject := seedSubject(t, db, tc, class.ID, "Math", "MATH")

	base := CreateTimetableInput{
		ClassID: class.ID, SubjectID: subject.ID,
		DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00",
	}
	_, err := svc.Create(tc, base)
	require.NoError(t, err)

	t.Run("rejects overlapping slots on the same day", func(t *testing.T) {
		for _, interval := range []struct{ start, end string }{
			{"09:30", "10:30"},
			{"08:30", "09:30"},
			{"08:00", "11:00"},
		} {
			in := base
			in.StartTime, in.EndTime = interval.start, interval.end
			_, err := svc.Create(tc, in)
			require.Error(t, err, "interval %s-%s", interval.start, interval.end)
			assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		}
	})

	t.Run("adjacent slot is allowed", func(t *testing.T) {
		in := base
		in.StartTime, in.EndTime = "10:00", "11:00"
		_, err := svc.Create(tc, in)
		assert.NoError(t, err)
	})

	t.Run("same interval on another day is allowed", func(t *testing.T) {
		in := base
		in.DayOfWeek = 2
		_, err := svc.Create(tc, in)
		assert.NoError(t, err)
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		for _, interval := range []struct{ start, end string }{
			{"9:00", "10:00"},
			{"09:00", "24:00"},
			{"09:60", "10:00"},
			{"morning", "noon"},
		} {
			in := base
			in.StartTime, in.EndTime = interval.start, interval.end
			_, err := svc.Create(tc, in)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "interval %s-%s", interval.start, interval.end)
		}
	})

	t.Run("rejects inverted and empty intervals", func(t *testing.T) {
		in := base
		in.StartTime, in.EndTime = "10:00", "09:00"
		_, err := svc.Create(tc, in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		in.StartTime, in.EndTime = "09:00", "09:00"
		_, err = svc.Create(tc, in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("rejects foreign class", func(t *testing.T) {
		other := seedTenant(t, db, "school-b")
		otherClass := seedClass(t, db, other, "Class 5", "2024")
		in := base
		in.ClassID = otherClass.ID
		in.StartTime, in.EndTime = "13:00", "14:00"
		_, err := svc.Create(tc, in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestTimetableUpdate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewTimetableService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")
	subject := seedSubject(t, db, tc, class.ID, "Math", "MATH")

	first, err := svc.Create(tc, CreateTimetableInput{
		ClassID: class.ID, SubjectID: subject.ID,
		DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)
	second, err := svc.Create(tc, CreateTimetableInput{
		ClassID: class.ID, SubjectID: subject.ID,
		DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00",
	})
	require.NoError(t, err)

	t.Run("unchanged schedule skips the overlap check", func(t *testing.T) {
		updated, err := svc.Update(tc, first.ID, UpdateTimetableInput{
			StartTime: ptr("09:00"), EndTime: ptr("10:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "09:00", updated.StartTime)
	})

	t.Run("moving onto another entry conflicts", func(t *testing.T) {
		_, err := svc.Update(tc, second.ID, UpdateTimetableInput{StartTime: ptr("09:30")})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("moving to a free day succeeds", func(t *testing.T) {
		updated, err := svc.Update(tc, second.ID, UpdateTimetableInput{DayOfWeek: ptr(3)})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.DayOfWeek)
	})
}

func TestTimetableStats(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewTimetableService(db)
	c1 := seedClass(t, db, tc, "Class 5", "2024")
	c2 := seedClass(t, db, tc, "Class 6", "2024")
	s1 := seedSubject(t, db, tc, c1.ID, "Math", "MATH")
	s2 := seedSubject(t, db, tc, c2.ID, "Science", "SCI")

	mustCreate := func(classID, subjectID uint, day int, start, end string) {
		t.Helper()
		_, err := svc.Create(tc, CreateTimetableInput{
			ClassID: classID, SubjectID: subjectID,
			DayOfWeek: day, StartTime: start, EndTime: end,
		})
		require.NoError(t, err)
	}
	mustCreate(c1.ID, s1.ID, 1, "09:00", "10:00")
	mustCreate(c1.ID, s1.ID, 1, "10:00", "11:00")
	mustCreate(c2.ID, s2.ID, 2, "09:00", "10:00")

	stats, err := svc.Stats(tc)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEntries)
	assert.Equal(t, int64(2), stats.EntriesPerDay[1])
	assert.Equal(t, int64(1), stats.EntriesPerDay[2])
	assert.Equal(t, int64(2), stats.ClassesCovered)
}
