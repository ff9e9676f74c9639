package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plugilode/corpintel/internal/auth"
	"github.com/plugilode/corpintel/internal/config"
	"github.com/plugilode/corpintel/internal/handler"
	middlewarepkg "github.com/plugilode/corpintel/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserAdminHandler
	Records      *handler.RecordsHandler
	Insights     *handler.InsightHandler
	Verification *handler.VerificationHandler
	Contact      *handler.ContactHandler
	AdminUpload  *handler.AdminUploadHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	e.GET("/records", handlers.Records.List)
	e.GET("/records/:id", handlers.Records.Get)
	e.GET("/trends", handlers.Insights.Trends)
	e.GET("/records/:id/similar", handlers.Insights.Similar)
	e.GET("/records/:id/anomalies", handlers.Insights.Anomalies)

	e.POST("/contact", handlers.Contact.Submit, middlewarepkg.ContactRateLimiter(cfg.RateLimitContact))

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/records", handlers.Records.Create)
	secured.PATCH("/records/:id", handlers.Records.Update)
	secured.POST("/records/search", handlers.Records.Search)
	secured.GET("/records/:id/export", handlers.Records.Export)

	secured.GET("/records/:id/verification", handlers.Verification.Overview)
	secured.GET("/records/:id/verification/:field", handlers.Verification.Status)
	secured.POST("/records/:id/verification", handlers.Verification.Act)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.POST("/upload-csv", handlers.AdminUpload.UploadCSV)
	admin.GET("/contacts", handlers.Contact.List)
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
