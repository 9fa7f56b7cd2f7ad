package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staybooker/internal/handler/api"
	"staybooker/internal/handler/middleware"
	"staybooker/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	unitHandler *api.UnitHandler,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	userHandler *api.UserHandler,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, unitHandler, bookingHandler, paymentHandler, userHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	unitHandler *api.UnitHandler,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	userHandler *api.UserHandler,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		units := apiGroup.Group("/units")
		{
			addRoutes(units, []route{
				{Method: http.MethodPost, Path: "", Handler: unitHandler.AddUnit},
				{Method: http.MethodGet, Path: "", Handler: unitHandler.SearchUnits},
				{Method: http.MethodPost, Path: "/availability", Handler: unitHandler.Availability},
				{Method: http.MethodGet, Path: "/:id", Handler: unitHandler.GetUnit},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodGet, Path: "", Handler: paymentHandler.ListPayments},
				{Method: http.MethodGet, Path: "/:id", Handler: paymentHandler.GetPayment},
			})
		}

		users := apiGroup.Group("/users")
		{
			addRoutes(users, []route{
				{Method: http.MethodGet, Path: "", Handler: userHandler.ListUsers},
				{Method: http.MethodGet, Path: "/:id", Handler: userHandler.GetUser},
			})
		}
	}
}

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
