package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/prometheus"
)

type AnnouncementHandler struct {
	svc *service.AnnouncementService
}

func NewAnnouncementHandler(svc *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

type createAnnouncementRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Audience string `json:"audience"`
	BranchID *uint  `json:"branch_id"`
}

type updateAnnouncementRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Audience *string `json:"audience"`
}

func (h *AnnouncementHandler) Create(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	var req createAnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	announcement, err := h.svc.Create(t, service.CreateAnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Audience: req.Audience,
		BranchID: req.BranchID,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("announcement", "create")
	revalidate.Path("/announcements")
	return ok(c, http.StatusCreated, announcement, "announcement created")
}

func (h *AnnouncementHandler) List(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	branchID, err := queryID(c, "branch_id")
	if err != nil {
		return fail(c, err)
	}
	announcements, err := h.svc.List(t, branchID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, announcements, "")
}

func (h *AnnouncementHandler) Get(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	announcement, err := h.svc.GetByID(t, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, announcement, "")
}

func (h *AnnouncementHandler) Update(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateAnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	announcement, err := h.svc.Update(t, id, service.UpdateAnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Audience: req.Audience,
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordEntityOperation("announcement", "update")
	revalidate.Path("/announcements")
	return ok(c, http.StatusOK, announcement, "announcement updated")
}

func (h *AnnouncementHandler) Delete(c echo.Context) error {
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

	prometheus.RecordEntityOperation("announcement", "delete")
	revalidate.Path("/announcements")
	return ok(c, http.StatusOK, nil, "announcement deleted")
}
