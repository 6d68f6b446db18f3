package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type SchoolHandler struct {
	svc *service.SchoolService
}

func NewSchoolHandler(svc *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{svc: svc}
}

type updateSchoolRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Website *string `json:"website"`
}

func (h *SchoolHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	school, err := h.svc.Get(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, school, "")
}

func (h *SchoolHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req updateSchoolRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	school, err := h.svc.Update(t, service.UpdateSchoolInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Website: req.Website,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("school", "update")
	revalidate.Path("/school")
	return ok(c, http.StatusOK, school, "school updated")
}
