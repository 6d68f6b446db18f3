package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type SectionHandler struct {
	svc *service.SectionService
}

func NewSectionHandler(svc *service.SectionService) *SectionHandler {
	return &SectionHandler{svc: svc}
}

type createSectionRequest struct {
	ClassID     uint   `json:"class_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	DisplayName string `json:"display_name"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
}

type updateSectionRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	Capacity    *int    `json:"capacity"`
}

func (h *SectionHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createSectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	section, err := h.svc.Create(t, service.CreateSectionInput{
		ClassID:     req.ClassID,
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("section", "create")
	revalidate.Path("/sections")
	return ok(c, http.StatusCreated, section, "section created")
}

func (h *SectionHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}

	classID, err := queryID(c, "class_id")
	if err != nil {
		return fail(c, err)
	}

	if withOccupancy, _ := strconv.ParseBool(c.QueryParam("occupancy")); withOccupancy {
		sections, err := h.svc.ListWithOccupancy(t, classID)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusOK, sections, "")
	}

	if classID != 0 {
		sections, err := h.svc.ListByClass(t, classID)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusOK, sections, "")
	}

	sections, err := h.svc.List(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, sections, "")
}

func (h *SectionHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	section, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, section, "")
}

// NextRollNumber handles GET /api/sections/:id/next-roll-number.
func (h *SectionHandler) NextRollNumber(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	roll, err := h.svc.NextRollNumber(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"roll_number": roll}, "")
}

func (h *SectionHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateSectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	section, err := h.svc.Update(t, id, service.UpdateSectionInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("section", "update")
	revalidate.Path("/sections")
	return ok(c, http.StatusOK, section, "section updated")
}

func (h *SectionHandler) Delete(c echo.Context) error {
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

	prometheus.RecordEntityOperation("section", "delete")
	revalidate.Path("/sections")
	return ok(c, http.StatusOK, nil, "section deleted")
}
