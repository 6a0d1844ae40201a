package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/db"
	"github.com/Skotchmaster/content_backend/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/content_backend/internal/middleware/logging"
	"github.com/Skotchmaster/content_backend/internal/transport"
)

type Deps struct {
	DB               *gorm.DB
	Logger           *slog.Logger
	Gate             *auth.Gate
	UsersHandler     *UsersHTTP
	BlogsHandler     *BlogsHTTP
	FAQsHandler      *FAQsHTTP
	ContactsHandler  *ContactsHTTP
	DashboardHandler *DashboardHTTP

	CORSOrigins []string
	StaticDir   string
	BodyLimit   string
}

// New builds the echo instance with the middleware chain and all routes.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(d.Logger))
	if len(d.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: d.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
	if d.BodyLimit != "" {
		e.Use(middleware.BodyLimit(d.BodyLimit))
	}

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, transport.HealthResponse{Status: "ok", Time: time.Now().UTC()})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
		}
		return c.JSON(http.StatusOK, transport.HealthResponse{Status: "ready", Time: time.Now().UTC()})
	})
	if d.StaticDir != "" {
		e.Static("/static", d.StaticDir)
	}

	requireAuth := d.Gate.RequireAuth

	users := e.Group("/users")
	users.POST("/register", d.UsersHandler.Register)
	users.POST("/login", d.UsersHandler.Login)
	users.POST("/logout", d.UsersHandler.Logout, requireAuth)
	users.GET("/me", d.UsersHandler.Me, requireAuth)
	users.PUT("/me/password", d.UsersHandler.ChangePassword, requireAuth)
	users.GET("/:id", d.UsersHandler.GetUser, requireAuth)
	users.DELETE("/:id", d.UsersHandler.DeleteUser, requireAuth)

	blogs := e.Group("/blogs")
	blogs.GET("", d.BlogsHandler.List)
	blogs.GET("/search", d.BlogsHandler.Search)
	blogs.GET("/blog-id/:id", d.BlogsHandler.Get)
	blogs.POST("", d.BlogsHandler.Create, requireAuth)
	blogs.PUT("/update/:id", d.BlogsHandler.Update, requireAuth)
	blogs.DELETE("/delete/:id", d.BlogsHandler.Delete, requireAuth)

	faqs := e.Group("/faqs")
	faqs.GET("", d.FAQsHandler.List)
	faqs.GET("/:id", d.FAQsHandler.Get)
	faqs.POST("", d.FAQsHandler.Create, requireAuth)
	faqs.PUT("/:id", d.FAQsHandler.Update, requireAuth)
	faqs.DELETE("/:id", d.FAQsHandler.Delete, requireAuth)

	contacts := e.Group("/contacts")
	contacts.POST("/create", d.ContactsHandler.Create)
	contacts.GET("", d.ContactsHandler.List, requireAuth)
	contacts.GET("/:id", d.ContactsHandler.Get, requireAuth)
	contacts.DELETE("/:id", d.ContactsHandler.Delete, requireAuth)

	dashboard := e.Group("/dashboard", requireAuth)
	dashboard.GET("/stats", d.DashboardHandler.Stats)
	dashboard.GET("/recent-messages", d.DashboardHandler.RecentMessages)
	dashboard.GET("/recent-blogs", d.DashboardHandler.RecentBlogs)
}
