package router

import (
	analyticsvc "coown-backend/internal/application/analytics"
	"coown-backend/internal/application/demand"
	healthsvc "coown-backend/internal/application/health"
	"coown-backend/internal/config"
	"coown-backend/internal/domain"
	"coown-backend/internal/infrastructure/persistence"
	adminhandler "coown-backend/internal/interfaces/handlers/admin"
	analyticshandler "coown-backend/internal/interfaces/handlers/analytics"
	eventshandler "coown-backend/internal/interfaces/handlers/events"
	healthhandler "coown-backend/internal/interfaces/handlers/health"
	offershandler "coown-backend/internal/interfaces/handlers/offers"
	propertyhandler "coown-backend/internal/interfaces/handlers/properties"
	reservationhandler "coown-backend/internal/interfaces/handlers/reservations"
	"coown-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Deps are the runtime pieces the routes are wired to. Writer, Rdb and DB
// are optional.
type Deps struct {
	Config    *config.Config
	Store     *demand.Service
	Analytics *analyticsvc.Service
	Writer    *persistence.Writer
	Rdb       *redis.Client
	DB        healthsvc.DBPinger
	Seed      func() (domain.Snapshot, error)
}

func CreateApp(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.TrafficMarker(d.Rdb))
	app.Use(middleware.ClientSession(middleware.SessionConfig{IsProduction: cfg.IsProduction()}))

	requireAdmin := middleware.RequireAdminKey(cfg.AdminKeyHash)

	hh := &healthhandler.Handlers{Rdb: d.Rdb, DB: d.DB}
	if d.Writer != nil {
		hh.Persistence = d.Writer
	}
	app.Get("/", hh.Summary)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Post("/health/reset", requireAdmin, hh.Reset)

	api := app.Group("/api/v1")

	// Properties
	ph := &propertyhandler.Handlers{Store: d.Store, Markers: d.Analytics}
	oh := &offershandler.Handlers{Store: d.Store}
	props := api.Group("/properties")
	props.Get("/", ph.List)
	props.Get("/map", ph.Map)
	props.Get("/:id", ph.Get)
	props.Get("/:id/active-reservation", ph.ActiveReservation)
	props.Post("/:id/open-offer", oh.Open)
	api.Get("/workflow", ph.Workflow)

	// Reservations, holdings and the current user
	rh := &reservationhandler.Handlers{Store: d.Store}
	res := api.Group("/reservations")
	res.Post("/", rh.Create)
	res.Get("/", rh.List)
	res.Post("/:id/fulfill", rh.Fulfill)
	api.Get("/holdings", rh.Holdings)
	api.Get("/me", rh.Me)

	// Analytics
	ah := &analyticshandler.Handlers{Service: d.Analytics}
	an := api.Group("/analytics")
	an.Get("/kpi", ah.Kpi)
	an.Get("/regions", ah.Regions)
	an.Get("/funnel", ah.Funnel)
	an.Get("/priority-board", ah.PriorityBoard)
	an.Get("/dashboard", ah.Dashboard)

	eh := &eventshandler.Handlers{Store: d.Store}
	api.Get("/demand-events", eh.Recent)

	// Admin
	adm := &adminhandler.Handlers{Store: d.Store, Seed: d.Seed}
	if d.Writer != nil {
		adm.Persistence = d.Writer
	}
	api.Post("/admin/reset-state", requireAdmin, adm.ResetState)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})

	return app
}
