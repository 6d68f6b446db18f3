package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

type AttendanceHandler struct {
	svc *service.AttendanceService
}

func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

type markAttendanceRequest struct {
	SectionID uint                     `json:"section_id" validate:"required"`
	Date      string                   `json:"date" validate:"required"`
	Marks     []service.AttendanceMark `json:"marks" validate:"required,min=1"`
}

// Mark handles POST /api/attendance.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req markAttendanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	if err := h.svc.MarkSection(t, req.SectionID, req.Date, req.Marks); err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("attendance", "mark")
	revalidate.Path("/attendance")
	logger.FromEcho(c).Info("attendance marked",
		zap.Uint("section_id", req.SectionID),
		zap.String("date", req.Date),
		zap.Int("marks", len(req.Marks)))
	return ok(c, http.StatusOK, nil, "attendance marked")
}

// ListBySection handles GET /api/attendance/section/:id?date=YYYY-MM-DD.
func (h *AttendanceHandler) ListBySection(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	rows, err := h.svc.ListBySection(t, id, c.QueryParam("date"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, rows, "")
}

// ListByStudent handles GET /api/attendance/student/:id with optional
// from/to range parameters.
func (h *AttendanceHandler) ListByStudent(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	rows, err := h.svc.ListByStudent(t, id, c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, rows, "")
}

func (h *AttendanceHandler) StudentStats(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	defer prometheus.TrackDBOperation("query")(time.Now())
	stats, err := h.svc.StatsForStudent(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, stats, "")
}
