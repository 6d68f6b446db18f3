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

type StudentHandler struct {
	svc *service.StudentService
}

func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

type createStudentRequest struct {
	personRequest
	RollNumber    string  `json:"roll_number"`
	SectionID     uint    `json:"section_id" validate:"required"`
	ParentID      *uint   `json:"parent_id"`
	AdmissionDate *string `json:"admission_date"`
}

type updateStudentRequest struct {
	personRequest
	RollNumber      *string `json:"roll_number"`
	SectionID       *uint   `json:"section_id"`
	ParentFirstName *string `json:"parent_first_name"`
	ParentLastName  *string `json:"parent_last_name"`
	ParentRelation  *string `json:"parent_relation"`
}

func (h *StudentHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	person, err := req.toInput()
	if err != nil {
		return fail(c, err)
	}
	admission, err := parseDate(req.AdmissionDate)
	if err != nil {
		return fail(c, err)
	}

	student, err := h.svc.Create(t, service.CreateStudentInput{
		Person:        person,
		RollNumber:    req.RollNumber,
		SectionID:     req.SectionID,
		ParentID:      req.ParentID,
		AdmissionDate: admission,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("student", "create")
	revalidate.Path("/students")
	logger.FromEcho(c).Info("student created",
		zap.Uint("student_id", student.ID),
		zap.String("roll_number", student.RollNumber))
	return ok(c, http.StatusCreated, student, "student created")
}

func (h *StudentHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}

	if sectionID, err := queryID(c, "section_id"); err != nil {
		return fail(c, err)
	} else if sectionID != 0 {
		students, err := h.svc.ListBySection(t, sectionID)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusOK, students, "")
	}

	if classID, err := queryID(c, "class_id"); err != nil {
		return fail(c, err)
	} else if classID != 0 {
		students, err := h.svc.ListByClass(t, classID)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusOK, students, "")
	}

	if branchID, err := queryID(c, "branch_id"); err != nil {
		return fail(c, err)
	} else if branchID != 0 {
		students, err := h.svc.ListByBranch(t, branchID)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusOK, students, "")
	}

	students, err := h.svc.List(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, students, "")
}

func (h *StudentHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	student, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, student, "")
}

func (h *StudentHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	person, err := req.toInput()
	if err != nil {
		return fail(c, err)
	}

	student, err := h.svc.Update(t, id, service.UpdateStudentInput{
		Person:          person,
		RollNumber:      req.RollNumber,
		SectionID:       req.SectionID,
		ParentFirstName: req.ParentFirstName,
		ParentLastName:  req.ParentLastName,
		ParentRelation:  req.ParentRelation,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("student", "update")
	revalidate.Path("/students")
	return ok(c, http.StatusOK, student, "student updated")
}

func (h *StudentHandler) Delete(c echo.Context) error {
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

	prometheus.RecordEntityOperation("student", "delete")
	revalidate.Path("/students")
	logger.FromEcho(c).Info("student deleted", zap.Uint("student_id", id))
	return ok(c, http.StatusOK, nil, "student deleted")
}

func (h *StudentHandler) Search(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	students, err := h.svc.Search(t, c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, students, "")
}

func (h *StudentHandler) Stats(c echo.Context) error {
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
