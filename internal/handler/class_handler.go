package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

type ClassHandler struct {
	svc *service.ClassService
}

func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{svc: svc}
}

type createClassRequest struct {
	Name         string `json:"name" validate:"required"`
	BranchID     uint   `json:"branch_id" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	TeacherID    *uint  `json:"teacher_id"`
}

type updateClassRequest struct {
	Name         *string `json:"name"`
	BranchID     *uint   `json:"branch_id"`
	AcademicYear *string `json:"academic_year"`
	TeacherID    *uint   `json:"teacher_id"`
	ClearTeacher bool    `json:"clear_teacher"`
}

type assignStudentsRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required,min=1"`
}

func (h *ClassHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createClassRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	class, err := h.svc.Create(t, service.CreateClassInput{
		Name:         req.Name,
		BranchID:     req.BranchID,
		AcademicYear: req.AcademicYear,
		TeacherID:    req.TeacherID,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("class", "create")
	revalidate.Path("/classes")
	logger.FromEcho(c).Info("class created",
		zap.Uint("class_id", class.ID),
		zap.String("name", class.Name))
	return ok(c, http.StatusCreated, class, "class created")
}

func (h *ClassHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	defer prometheus.TrackDBOperation("query")(time.Now())

	if branchID, err := queryID(c, "branch_id"); err != nil {
		return fail(c, err)
	} else if branchID != 0 {
		classes, err := h.svc.ListByBranch(t, branchID)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusOK, classes, "")
	}

	if year := strings.TrimSpace(c.QueryParam("academic_year")); year != "" {
		classes, err := h.svc.ListByAcademicYear(t, year)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusOK, classes, "")
	}

	classes, err := h.svc.List(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, classes, "")
}

func (h *ClassHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	class, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, class, "")
}

func (h *ClassHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateClassRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	class, err := h.svc.Update(t, id, service.UpdateClassInput{
		Name:         req.Name,
		BranchID:     req.BranchID,
		AcademicYear: req.AcademicYear,
		TeacherID:    req.TeacherID,
		ClearTeacher: req.ClearTeacher,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("class", "update")
	revalidate.Path("/classes")
	return ok(c, http.StatusOK, class, "class updated")
}

func (h *ClassHandler) Delete(c echo.Context) error {
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

	prometheus.RecordEntityOperation("class", "delete")
	revalidate.Path("/classes")
	logger.FromEcho(c).Info("class deleted", zap.Uint("class_id", id))
	return ok(c, http.StatusOK, nil, "class deleted")
}

func (h *ClassHandler) Search(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	classes, err := h.svc.Search(t, c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, classes, "")
}

func (h *ClassHandler) Stats(c echo.Context) error {
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

// AssignStudents is reserved until bulk transfers define how roll numbers
// move between sections; the service reports it as not implemented.
func (h *ClassHandler) AssignStudents(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req assignStudentsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.svc.AssignStudents(t, id, req.StudentIDs); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, nil, "students assigned")
}

func (h *ClassHandler) AvailableTeachers(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	teachers, err := h.svc.ListAvailableTeachers(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, teachers, "")
}

func (h *ClassHandler) Subjects(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	subjects, err := h.svc.ListSubjects(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, subjects, "")
}
