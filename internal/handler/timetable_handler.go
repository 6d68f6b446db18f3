package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type TimetableHandler struct {
	svc *service.TimetableService
}

func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

type createTimetableRequest struct {
	ClassID   uint   `json:"class_id" validate:"required"`
	SubjectID uint   `json:"subject_id" validate:"required"`
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type updateTimetableRequest struct {
	SubjectID *uint   `json:"subject_id"`
	DayOfWeek *int    `json:"day_of_week"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

func (h *TimetableHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createTimetableRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	entry, err := h.svc.Create(t, service.CreateTimetableInput{
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("timetable", "create")
	revalidate.Path("/timetable")
	return ok(c, http.StatusCreated, entry, "timetable entry created")
}

func (h *TimetableHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	classID, err := queryID(c, "class_id")
	if err != nil {
		return fail(c, err)
	}
	entries, err := h.svc.List(t, classID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, entries, "")
}

func (h *TimetableHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	entry, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, entry, "")
}

func (h *TimetableHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateTimetableRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	entry, err := h.svc.Update(t, id, service.UpdateTimetableInput{
		SubjectID: req.SubjectID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("timetable", "update")
	revalidate.Path("/timetable")
	return ok(c, http.StatusOK, entry, "timetable entry updated")
}

func (h *TimetableHandler) Delete(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Delete(t, id); err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("timetable", "delete")
	revalidate.Path("/timetable")
	return ok(c, http.StatusOK, nil, "timetable entry deleted")
}

func (h *TimetableHandler) Stats(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	stats, err := h.svc.Stats(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, stats, "")
}
