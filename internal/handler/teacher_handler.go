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

type TeacherHandler struct {
	svc *service.TeacherService
}

func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{svc: svc}
}

type createTeacherRequest struct {
	personRequest
	Qualification  string   `json:"qualification"`
	Experience     string   `json:"experience"`
	Specialization string   `json:"specialization"`
	Subjects       []string `json:"subjects"`
	Salary         float64  `json:"salary"`
	JoiningDate    *string  `json:"joining_date"`
}

type updateTeacherRequest struct {
	personRequest
	Qualification  *string  `json:"qualification"`
	Experience     *string  `json:"experience"`
	Specialization *string  `json:"specialization"`
	Subjects       []string `json:"subjects"`
	Salary         *float64 `json:"salary"`
	JoiningDate    *string  `json:"joining_date"`
}

func (h *TeacherHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createTeacherRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	person, err := req.toInput()
	if err != nil {
		return fail(c, err)
	}
	joining, err := parseDate(req.JoiningDate)
	if err != nil {
		return fail(c, err)
	}

	teacher, err := h.svc.Create(t, service.CreateTeacherInput{
		Person:         person,
		Qualification:  req.Qualification,
		Experience:     req.Experience,
		Specialization: req.Specialization,
		Subjects:       req.Subjects,
		Salary:         req.Salary,
		JoiningDate:    joining,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("teacher", "create")
	revalidate.Path("/teachers")
	logger.FromEcho(c).Info("teacher created", zap.Uint("teacher_id", teacher.ID))
	return ok(c, http.StatusCreated, teacher, "teacher created")
}

func (h *TeacherHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	teachers, err := h.svc.List(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, teachers, "")
}

func (h *TeacherHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	teacher, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, teacher, "")
}

func (h *TeacherHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateTeacherRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	person, err := req.toInput()
	if err != nil {
		return fail(c, err)
	}
	joining, err := parseDate(req.JoiningDate)
	if err != nil {
		return fail(c, err)
	}

	teacher, err := h.svc.Update(t, id, service.UpdateTeacherInput{
		Person:         person,
		Qualification:  req.Qualification,
		Experience:     req.Experience,
		Specialization: req.Specialization,
		Subjects:       req.Subjects,
		Salary:         req.Salary,
		JoiningDate:    joining,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("teacher", "update")
	revalidate.Path("/teachers")
	return ok(c, http.StatusOK, teacher, "teacher updated")
}

func (h *TeacherHandler) Delete(c echo.Context) error {
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

	prometheus.RecordEntityOperation("teacher", "delete")
	revalidate.Path("/teachers")
	return ok(c, http.StatusOK, nil, "teacher deleted")
}

func (h *TeacherHandler) Search(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	teachers, err := h.svc.Search(t, c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, teachers, "")
}

func (h *TeacherHandler) Stats(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	defer prometheus.TrackDBOperation("query")(time.Now())
	stats, err := h.svc.Stats(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, stats, "")
}
