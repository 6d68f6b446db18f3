package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type SubjectHandler struct {
	svc *service.SubjectService
}

func NewSubjectHandler(svc *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{svc: svc}
}

type createSubjectRequest struct {
	ClassID     uint   `json:"class_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
}

type updateSubjectRequest struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

type addChapterRequest struct {
	Name       string `json:"name" validate:"required"`
	OrderIndex int    `json:"order_index"`
}

type addLessonRequest struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content"`
}

type updateChapterRequest struct {
	Name       *string `json:"name"`
	OrderIndex *int    `json:"order_index"`
}

type updateLessonRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

func (h *SubjectHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createSubjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	subject, err := h.svc.Create(t, service.CreateSubjectInput{
		ClassID:     req.ClassID,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("subject", "create")
	revalidate.Path("/subjects")
	return ok(c, http.StatusCreated, subject, "subject created")
}

func (h *SubjectHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	subjects, err := h.svc.List(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, subjects, "")
}

func (h *SubjectHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	subject, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, subject, "")
}

func (h *SubjectHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateSubjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	subject, err := h.svc.Update(t, id, service.UpdateSubjectInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("subject", "update")
	revalidate.Path("/subjects")
	return ok(c, http.StatusOK, subject, "subject updated")
}

// Delete removes a subject; with ?force=true it cascades over chapters,
// lessons and timetable entries and reports what was removed.
func (h *SubjectHandler) Delete(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	force, _ := strconv.ParseBool(c.QueryParam("force"))

	result, err := h.svc.Delete(t, id, force)
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("subject", "delete")
	revalidate.Path("/subjects", "/timetable")
	return ok(c, http.StatusOK, result, "subject deleted")
}

func (h *SubjectHandler) AddChapter(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req addChapterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	chapter, err := h.svc.AddChapter(t, id, req.Name, req.OrderIndex)
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("chapter", "create")
	return ok(c, http.StatusCreated, chapter, "chapter created")
}

func (h *SubjectHandler) AddLesson(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	chapterID, err := paramID(c, "chapterId")
	if err != nil {
		return fail(c, err)
	}
	var req addLessonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	lesson, err := h.svc.AddLesson(t, chapterID, req.Name, req.Content)
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("lesson", "create")
	return ok(c, http.StatusCreated, lesson, "lesson created")
}

func (h *SubjectHandler) UpdateChapter(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "chapterId")
	if err != nil {
		return fail(c, err)
	}
	var req updateChapterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	chapter, err := h.svc.UpdateChapter(t, id, req.Name, req.OrderIndex)
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("chapter", "update")
	return ok(c, http.StatusOK, chapter, "chapter updated")
}

func (h *SubjectHandler) DeleteChapter(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "chapterId")
	if err != nil {
		return fail(c, err)
	}

	if err := h.svc.DeleteChapter(t, id); err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("chapter", "delete")
	return ok(c, http.StatusOK, nil, "chapter deleted")
}

func (h *SubjectHandler) UpdateLesson(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "lessonId")
	if err != nil {
		return fail(c, err)
	}
	var req updateLessonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	lesson, err := h.svc.UpdateLesson(t, id, req.Name, req.Content)
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("lesson", "update")
	return ok(c, http.StatusOK, lesson, "lesson updated")
}

func (h *SubjectHandler) DeleteLesson(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "lessonId")
	if err != nil {
		return fail(c, err)
	}

	if err := h.svc.DeleteLesson(t, id); err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("lesson", "delete")
	return ok(c, http.StatusOK, nil, "lesson deleted")
}
