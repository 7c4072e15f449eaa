package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"parking-orchestrator/internal/handler/api"
	"parking-orchestrator/internal/handler/middleware"
	"parking-orchestrator/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine             *gin.Engine
	Config             config.Config
	Logger             *slog.Logger
	BookingHandler     *api.BookingHandler
	ParkingHandler     *api.ParkingHandler
	ReservationHandler *api.ReservationHandler
	LoyaltyHandler     *api.LoyaltyHandler
	DashboardHandler   *api.DashboardHandler
	AuthMiddleware     *middleware.AuthMiddleware
	// RateLimit is absent when no Redis is configured.
	RateLimit *middleware.RateLimitMiddleware `optional:"true"`
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger))
	engine.Use(middleware.LoggingMiddleware(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var bookingMw []gin.HandlerFunc
	if p.RateLimit != nil {
		bookingMw = append(bookingMw, p.RateLimit.PerUser())
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(p.AuthMiddleware.RequireAuth())
	{
		addRoutes(apiGroup.Group("/bookings"), []route{
			{Method: http.MethodPost, Path: "", Handler: p.BookingHandler.Create, Mw: bookingMw},
			{Method: http.MethodGet, Path: "/:key", Handler: p.BookingHandler.Get},
		})

		addRoutes(apiGroup.Group("/parkings"), []route{
			{Method: http.MethodGet, Path: "", Handler: p.ParkingHandler.List},
			{Method: http.MethodGet, Path: "/:name", Handler: p.ParkingHandler.Get},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/reservations", Handler: p.ReservationHandler.ListMine},
			{Method: http.MethodGet, Path: "/loyalty", Handler: p.LoyaltyHandler.Get},
			{Method: http.MethodGet, Path: "/admin/dashboard", Handler: p.DashboardHandler.Get},
			{Method: http.MethodGet, Path: "/admin/revenue", Handler: p.DashboardHandler.Revenue},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
