package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type FeeHandler struct {
	svc *service.FeeService
}

func NewFeeHandler(svc *service.FeeService) *FeeHandler {
	return &FeeHandler{svc: svc}
}

type createFeeRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	Title     string  `json:"title" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	DueDate   *string `json:"due_date"`
}

func (h *FeeHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createFeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return fail(c, err)
	}

	fee, err := h.svc.Create(t, service.CreateFeeInput{
		StudentID: req.StudentID,
		Title:     req.Title,
		Amount:    req.Amount,
		DueDate:   due,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("fee", "create")
	revalidate.Path("/fees")
	return ok(c, http.StatusCreated, fee, "fee created")
}

// ListByStudent handles GET /api/fees/student/:id.
func (h *FeeHandler) ListByStudent(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	fees, err := h.svc.ListByStudent(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, fees, "")
}

// Pay handles POST /api/fees/:id/pay.
func (h *FeeHandler) Pay(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	fee, err := h.svc.RecordPayment(t, id)
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("fee", "pay")
	revalidate.Path("/fees")
	return ok(c, http.StatusOK, fee, "payment recorded")
}

func (h *FeeHandler) Summary(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	defer prometheus.TrackDBOperation("query")(time.Now())
	summary, err := h.svc.PendingSummary(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, summary, "")
}
