package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"waitdesk/internal/handler/api"
	"waitdesk/internal/handler/middleware"
	"waitdesk/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, appointmentHandler *api.AppointmentHandler, queueHandler *api.QueueHandler, serviceHandler *api.ServiceHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, appointmentHandler, queueHandler, serviceHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, appointmentHandler *api.AppointmentHandler, queueHandler *api.QueueHandler, serviceHandler *api.ServiceHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		services := apiGroup.Group("/services")
		{
			addRoutes(services, []route{
				{Method: http.MethodGet, Path: "/:id/availability", Handler: serviceHandler.Availability},
			})
		}

		appointments := apiGroup.Group("/appointments")
		{
			addRoutes(appointments, []route{
				{Method: http.MethodPost, Path: "", Handler: appointmentHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: appointmentHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: appointmentHandler.Get},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: appointmentHandler.Confirm},
				{Method: http.MethodPost, Path: "/:id/start", Handler: appointmentHandler.Start},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: appointmentHandler.Complete},
				{Method: http.MethodPost, Path: "/:id/no-show", Handler: appointmentHandler.MarkNoShow},
				{Method: http.MethodDelete, Path: "/:id", Handler: appointmentHandler.Cancel},
			})
		}

		queue := apiGroup.Group("/queue")
		{
			addRoutes(queue, []route{
				{Method: http.MethodPost, Path: "", Handler: queueHandler.Join},
				{Method: http.MethodGet, Path: "", Handler: queueHandler.List},
				{Method: http.MethodPost, Path: "/next", Handler: queueHandler.CallNext},
				{Method: http.MethodGet, Path: "/:id", Handler: queueHandler.Get},
				{Method: http.MethodPost, Path: "/:id/start", Handler: queueHandler.StartService},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: queueHandler.Complete},
				{Method: http.MethodDelete, Path: "/:id", Handler: queueHandler.Cancel},
			})
		}
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
