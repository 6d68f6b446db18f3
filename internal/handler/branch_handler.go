package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type BranchHandler struct {
	svc *service.BranchService
}

func NewBranchHandler(svc *service.BranchService) *BranchHandler {
	return &BranchHandler{svc: svc}
}

type createBranchRequest struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type updateBranchRequest struct {
	Name    *string `json:"name"`
	Code    *string `json:"code"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

func (h *BranchHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createBranchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	branch, err := h.svc.Create(t, service.CreateBranchInput{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("branch", "create")
	revalidate.Path("/branches")
	return ok(c, http.StatusCreated, branch, "branch created")
}

func (h *BranchHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	branches, err := h.svc.List(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, branches, "")
}

func (h *BranchHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	branch, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, branch, "")
}

func (h *BranchHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateBranchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	branch, err := h.svc.Update(t, id, service.UpdateBranchInput{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("branch", "update")
	revalidate.Path("/branches")
	return ok(c, http.StatusOK, branch, "branch updated")
}

func (h *BranchHandler) Delete(c echo.Context) error {
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

	prometheus.RecordEntityOperation("branch", "delete")
	revalidate.Path("/branches")
	return ok(c, http.StatusOK, nil, "branch deleted")
}
