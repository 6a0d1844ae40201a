package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_backend/internal/service"
	"github.com/Skotchmaster/content_backend/internal/transport"
)

type DashboardHTTP struct {
	Svc *service.DashboardService
}

func (h *DashboardHTTP) Stats(c echo.Context) error {
	st, err := h.Svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.StatsResponse{Stats: []transport.StatItem{
		{Title: "New Messages", Value: strconv.FormatInt(st.NewMessages, 10)},
		{Title: "Total Patients", Value: strconv.FormatInt(st.Users, 10)},
		{Title: "Blog Posts", Value: strconv.FormatInt(st.Blogs, 10)},
		{Title: "All Messages", Value: strconv.FormatInt(st.Messages, 10)},
	}})
}

func (h *DashboardHTTP) RecentMessages(c echo.Context) error {
	items, err := h.Svc.RecentMessages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.RecentMessagesResponse{Messages: items})
}

func (h *DashboardHTTP) RecentBlogs(c echo.Context) error {
	items, err := h.Svc.RecentBlogs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.RecentBlogsResponse{Blogs: transport.NewBlogList(items)})
}
