package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type ParentHandler struct {
	svc *service.ParentService
}

func NewParentHandler(svc *service.ParentService) *ParentHandler {
	return &ParentHandler{svc: svc}
}

type createParentRequest struct {
	personRequest
	Relation string `json:"relation"`
}

type updateParentRequest struct {
	personRequest
	Relation *string `json:"relation"`
}

func (h *ParentHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createParentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	person, err := req.toInput()
	if err != nil {
		return fail(c, err)
	}

	parent, err := h.svc.Create(t, service.CreateParentInput{
		Person:   person,
		Relation: req.Relation,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("parent", "create")
	revalidate.Path("/parents")
	return ok(c, http.StatusCreated, parent, "parent created")
}

func (h *ParentHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	parents, err := h.svc.List(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, parents, "")
}

func (h *ParentHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	parent, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, parent, "")
}

func (h *ParentHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateParentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	person, err := req.toInput()
	if err != nil {
		return fail(c, err)
	}

	parent, err := h.svc.Update(t, id, service.UpdateParentInput{
		Person:   person,
		Relation: req.Relation,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("parent", "update")
	revalidate.Path("/parents")
	return ok(c, http.StatusOK, parent, "parent updated")
}

func (h *ParentHandler) Delete(c echo.Context) error {
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

	prometheus.RecordEntityOperation("parent", "delete")
	revalidate.Path("/parents")
	return ok(c, http.StatusOK, nil, "parent deleted")
}

func (h *ParentHandler) Search(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	parents, err := h.svc.Search(t, c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, parents, "")
}
