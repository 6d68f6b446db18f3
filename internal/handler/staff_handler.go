package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type StaffHandler struct {
	svc *service.StaffService
}

func NewStaffHandler(svc *service.StaffService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

type createStaffRequest struct {
	personRequest
	Designation string  `json:"designation"`
	Department  string  `json:"department"`
	Salary      float64 `json:"salary"`
	JoiningDate *string `json:"joining_date"`
}

type updateStaffRequest struct {
	personRequest
	Designation *string  `json:"designation"`
	Department  *string  `json:"department"`
	Salary      *float64 `json:"salary"`
	JoiningDate *string  `json:"joining_date"`
}

func (h *StaffHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createStaffRequest
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

	staff, err := h.svc.Create(t, service.CreateStaffInput{
		Person:      person,
		Designation: req.Designation,
		Department:  req.Department,
		Salary:      req.Salary,
		JoiningDate: joining,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("staff", "create")
	revalidate.Path("/staff")
	return ok(c, http.StatusCreated, staff, "staff created")
}

func (h *StaffHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	staff, err := h.svc.List(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, staff, "")
}

func (h *StaffHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	staff, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, staff, "")
}

func (h *StaffHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateStaffRequest
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

	staff, err := h.svc.Update(t, id, service.UpdateStaffInput{
		Person:      person,
		Designation: req.Designation,
		Department:  req.Department,
		Salary:      req.Salary,
		JoiningDate: joining,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("staff", "update")
	revalidate.Path("/staff")
	return ok(c, http.StatusOK, staff, "staff updated")
}

func (h *StaffHandler) Delete(c echo.Context) error {
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

	prometheus.RecordEntityOperation("staff", "delete")
	revalidate.Path("/staff")
	return ok(c, http.StatusOK, nil, "staff deleted")
}

func (h *StaffHandler) Search(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	staff, err := h.svc.Search(t, c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, staff, "")
}
