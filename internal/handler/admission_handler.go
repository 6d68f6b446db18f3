package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/apperr"
	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

type AdmissionHandler struct {
	svc *service.AdmissionService
}

func NewAdmissionHandler(svc *service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{svc: svc}
}

// admissionRequest is deliberately loose on validator tags; the service
// reports missing fields one at a time with human-readable labels.
type admissionRequest struct {
	SectionID uint `json:"section_id"`

	StudentFirstName string  `json:"student_first_name"`
	StudentLastName  string  `json:"student_last_name"`
	StudentEmail     string  `json:"student_email"`
	RollNumber       string  `json:"roll_number"`
	Gender           string  `json:"gender"`
	DateOfBirth      *string `json:"date_of_birth"`

	ParentFirstName string `json:"parent_first_name"`
	ParentLastName  string `json:"parent_last_name"`
	ParentEmail     string `json:"parent_email"`
	ParentPhone     string `json:"parent_phone"`
	Relation        string `json:"relation"`
}

// Admit handles POST /api/admissions.
func (h *AdmissionHandler) Admit(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req admissionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validationf("invalid request body"))
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return fail(c, err)
	}

	prometheus.AdmissionCounter.Inc()
	defer prometheus.TrackDBOperation("insert")(time.Now())
	result, err := h.svc.Admit(t, service.AdmissionInput{
		SectionID:        req.SectionID,
		StudentFirstName: req.StudentFirstName,
		StudentLastName:  req.StudentLastName,
		StudentEmail:     req.StudentEmail,
		RollNumber:       req.RollNumber,
		Gender:           req.Gender,
		DateOfBirth:      dob,
		ParentFirstName:  req.ParentFirstName,
		ParentLastName:   req.ParentLastName,
		ParentEmail:      req.ParentEmail,
		ParentPhone:      req.ParentPhone,
		Relation:         req.Relation,
	})
	if err != nil {
		return fail(c, err)
	}

	revalidate.Path("/students", "/parents")
	logger.FromEcho(c).Info("admission completed",
		zap.String("application_number", result.ApplicationNumber),
		zap.Uint("student_id", result.StudentID),
		zap.Uint("parent_id", result.ParentID))
	return ok(c, http.StatusCreated, result, "admission completed")
}
