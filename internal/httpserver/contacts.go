package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/models"
	"github.com/Skotchmaster/content_backend/internal/repo"
	"github.com/Skotchmaster/content_backend/internal/service"
	"github.com/Skotchmaster/content_backend/internal/transport"
)

type ContactsHTTP struct {
	Svc *service.ContactService
}

func (h *ContactsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contacts_create")

	var req transport.ContactCreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("contact_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.IsSpam() {
		l.Info("contact_spam_dropped", "remote_ip", c.RealIP())
		return c.NoContent(http.StatusNoContent)
	}
	if err := req.Validate(); err != nil {
		l.Warn("contact_create_error", "status", 422, "error", err)
		return err
	}

	msg := req.Model()
	if err := h.Svc.Submit(ctx, msg); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ContactsHTTP) List(c echo.Context) error {
	var (
		q             transport.ContactListQuery
		offset, limit int
	)
	if err := echo.QueryParamsBinder(c).
		String("q", &q.Q).
		String("status", &q.Status).
		Int("offset", &offset).
		Int("limit", &limit).
		BindError(); err != nil {
		return err
	}
	if c.QueryParam("offset") != "" {
		q.Offset = &offset
	}
	if c.QueryParam("limit") != "" {
		q.Limit = &limit
	}
	if err := q.Validate(); err != nil {
		return err
	}

	off, lim := q.Page()
	total, items, err := h.Svc.List(c.Request().Context(), repo.ContactFilter{
		Query:  q.Q,
		Status: models.ContactStatus(q.Status),
		Offset: off,
		Limit:  lim,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.ContactListResponse{Total: total, Items: items})
}

func (h *ContactsHTTP) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	msg, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *ContactsHTTP) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
