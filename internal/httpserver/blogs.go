package httpserver

import (
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/middleware/auth"
	"github.com/Skotchmaster/content_backend/internal/service"
	"github.com/Skotchmaster/content_backend/internal/transport"
	"github.com/Skotchmaster/content_backend/internal/util"
)

type BlogsHTTP struct {
	Svc *service.BlogService
}

func (h *BlogsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blogs_create")

	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return service.ErrMissingCredentials
	}

	var req transport.BlogCreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("blog_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return validation.Errors{"image": errors.New("cannot be blank")}
	}
	if !strings.HasPrefix(fh.Header.Get(echo.HeaderContentType), "image/") {
		l.Warn("blog_create_error", "status", 400, "reason", "not an image", "content_type", fh.Header.Get(echo.HeaderContentType))
		return echo.NewHTTPError(http.StatusBadRequest, "File must be an image")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	blog, err := h.Svc.Create(ctx, p.User, req.Title, req.Content, service.ImageUpload{
		Filename: fh.Filename,
		Body:     f,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, transport.NewBlogResponse(blog))
}

func (h *BlogsHTTP) List(c echo.Context) error {
	items, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewBlogList(items))
}

func (h *BlogsHTTP) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	blog, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewBlogResponse(blog))
}

func (h *BlogsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blogs_update")

	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return service.ErrMissingCredentials
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req transport.BlogUpdateRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		l.Warn("blog_update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	blog, err := h.Svc.Update(ctx, p.User, id, service.BlogPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewBlogResponse(blog))
}

func (h *BlogsHTTP) Delete(c echo.Context) error {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return service.ErrMissingCredentials
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), p.User, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BlogsHTTP) Search(c echo.Context) error {
	var page, size int
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("size", &size).
		BindError(); err != nil {
		return err
	}
	page, size, from := util.Calculate(page, size)

	total, items, err := h.Svc.Search(c.Request().Context(), strings.TrimSpace(c.QueryParam("q")), from, size)
	if err != nil {
		return err
	}

	pages := util.TotalPages(total, size)
	return c.JSON(http.StatusOK, transport.BlogSearchResponse{
		Data: transport.NewBlogList(items),
		Meta: transport.PageMeta{
			Page:       page,
			Size:       size,
			Total:      total,
			TotalPages: pages,
			HasPrev:    page > 1,
			HasNext:    int64(page) < pages,
		},
	})
}
