package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperr"
	"school-service/internal/model"
)

func TestSubjectCreate(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewSubjectService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")

	t.Run("uppercases the code", func(t *testing.T) {
		subject, err := svc.Create(tc, CreateSubjectInput{
			ClassID: class.ID, Name: "Mathematics", Code: "math",
		})
		require.NoError(t, err)
		assert.Equal(t, "MATH", subject.Code)
	})

	t.Run("rejects duplicate code in class regardless of case", func(t *testing.T) {
		_, err := svc.Create(tc, CreateSubjectInput{
			ClassID: class.ID, Name: "Maths Again", Code: "Math",
		})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("same code allowed in another class", func(t *testing.T) {
		other := seedClass(t, db, tc, "Class 6", "2024")
		_, err := svc.Create(tc, CreateSubjectInput{
			ClassID: other.ID, Name: "Mathematics", Code: "MATH",
		})
		assert.NoError(t, err)
	})
}

func TestSubjectDelete(t *testing.T) {
	db := newTestDB(t)
	tc := seedTenant(t, db, "school-a")
	svc := NewSubjectService(db)
	ttSvc := NewTimetableService(db)
	class := seedClass(t, db, tc, "Class 5", "2024")

	subject, err := svc.Create(tc, CreateSubjectInput{
		ClassID: class.ID, Name: "Science", Code: "SCI",
	})
	require.NoError(t, err)

	chapter, err := svc.AddChapter(tc, subject.ID, "Plants", 1)
	require.NoError(t, err)
	_, err = svc.AddLesson(tc, chapter.ID, "Photosynthesis", "...")
	require.NoError(t, err)
	_, err = svc.AddLesson(tc, chapter.ID, "Respiration", "...")
	require.NoError(t, err)
	_, err = ttSvc.Create(tc, CreateTimetableInput{
		ClassID: class.ID, SubjectID: subject.ID,
		DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)

	t.Run("blocked without force", func(t *testing.T) {
		_, err := svc.Delete(tc, subject.ID, false)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
	})

	t.Run("force cascades and reports counts", func(t *testing.T) {
		result, err := svc.Delete(tc, subject.ID, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.DeletedLessons)
		assert.Equal(t, int64(1), result.DeletedChapters)
		assert.Equal(t, int64(1), result.DeletedTimetables)

		var lessons, chapters, timetables, subjects int64
		require.NoError(t, db.Model(&model.Lesson{}).Count(&lessons).Error)
		require.NoError(t, db.Model(&model.Chapter{}).Count(&chapters).Error)
		require.NoError(t, db.Model(&model.Timetable{}).Count(&timetables).Error)
		require.NoError(t, db.Model(&model.Subject{}).Where("id = ?", subject.ID).Count(&subjects).Error)
		assert.Zero(t, lessons)
		assert.Zero(t, chapters)
		assert.Zero(t, timetables)
		assert.Zero(t, subjects)
	})

	t.Run("chapter delete cascades its lessons", func(t *testing.T) {
		subject, err := svc.Create(tc, CreateSubjectInput{
			ClassID: class.ID, Name: "History", Code: "HIS",
		})
		require.NoError(t, err)
		chapter, err := svc.AddChapter(tc, subject.ID, "Ancient", 1)
		require.NoError(t, err)
		_, err = svc.AddLesson(tc, chapter.ID, "Egypt", "...")
		require.NoError(t, err)

		renamed, err := svc.UpdateChapter(tc, chapter.ID, ptr("Ancient World"), nil)
		require.NoError(t, err)
		assert.Equal(t, "Ancient World", renamed.Name)

		require.NoError(t, svc.DeleteChapter(tc, chapter.ID))
		var lessons int64
		require.NoError(t, db.Model(&model.Lesson{}).
			Where("chapter_id = ?", chapter.ID).Count(&lessons).Error)
		assert.Zero(t, lessons)
	})

	t.Run("lesson update and delete", func(t *testing.T) {
		subject, err := svc.Create(tc, CreateSubjectInput{
			ClassID: class.ID, Name: "Music", Code: "MUS",
		})
		require.NoError(t, err)
		chapter, err := svc.AddChapter(tc, subject.ID, "Rhythm", 1)
		require.NoError(t, err)
		lesson, err := svc.AddLesson(tc, chapter.ID, "Beats", "...")
		require.NoError(t, err)

		updated, err := svc.UpdateLesson(tc, lesson.ID, ptr("Beats and bars"), nil)
		require.NoError(t, err)
		assert.Equal(t, "Beats and bars", updated.Name)

		require.NoError(t, svc.DeleteLesson(tc, lesson.ID))
		err = svc.DeleteLesson(tc, lesson.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("bare subject deletes without force", func(t *testing.T) {
		bare, err := svc.Create(tc, CreateSubjectInput{
			ClassID: class.ID, Name: "Art", Code: "ART",
		})
		require.NoError(t, err)
		result, err := svc.Delete(tc, bare.ID, false)
		require.NoError(t, err)
		assert.Zero(t, result.DeletedLessons)
	})
}
