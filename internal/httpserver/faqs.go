package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_backend/internal/service"
	"github.com/Skotchmaster/content_backend/internal/transport"
)

type FAQsHTTP struct {
	Svc *service.FAQService
}

func (h *FAQsHTTP) List(c echo.Context) error {
	items, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FAQsHTTP) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	faq, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faq)
}

func (h *FAQsHTTP) Create(c echo.Context) error {
	var req transport.FAQCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	faq, err := h.Svc.Create(c.Request().Context(), req.Question, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, faq)
}

func (h *FAQsHTTP) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.FAQUpdateRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	faq, err := h.Svc.Update(c.Request().Context(), id, req.Question, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faq)
}

func (h *FAQsHTTP) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
