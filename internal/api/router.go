package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Mustafaelfangary/Altavidatours-sub004/docs"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/handler"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/middleware"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/views"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/i18n"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/http/handlers"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Log          zerolog.Logger
	SignInPath   string
	SecureCookie bool

	Store      *ports.Store
	Auth       *service.AuthService
	Locales    *i18n.Catalog
	ReadPolicy service.ReadPolicy
	// Guard is optional; without it create submissions are not de-duplicated.
	Guard ports.SubmissionGuard
	// Notifier is optional; without it status changes notify nobody.
	Notifier ports.StatusNotifier
	// Health lists the dependencies /health/ready pings.
	Health []handlers.Dependency
	// Metrics defaults to the prometheus default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	if d.ReadPolicy == nil {
		d.ReadPolicy = service.DefaultReadPolicy()
	}
	if d.SignInPath == "" {
		d.SignInPath = "/auth/signin"
	}

	renderer, err := views.New(d.Locales)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.SignInPath)

	// --- Global middleware ---
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Metrics != nil {
		registerer, gatherer = d.Metrics, d.Metrics
	}
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog",
		Registerer: registerer,
	}))
	e.Use(middleware.Session(d.Auth))

	// --- Dependencies ---
	s := d.Store
	destinations := catalog[domain.Destination](s.Destinations, domain.CollectionDestinations, d, nil, nil)
	packages := catalog[domain.Package](s.Packages, domain.CollectionPackages, d, nil, nil)
	tours := catalog[domain.Tour](s.Tours, domain.CollectionTours, d, nil, nil)
	policies := catalog[domain.Policy](s.Policies, domain.CollectionPolicies, d, nil, nil)
	promotions := catalog[domain.Promotion](s.Promotions, domain.CollectionPromotions, d, nil, nil)
	faqs := catalog[domain.PageContent](s.PageContents, domain.CollectionPageContents, d,
		ports.Filter{"section": domain.SectionFAQ},
		func(p, _ *domain.PageContent) error {
			p.Section = domain.SectionFAQ
			return nil
		})
	pages := catalog[domain.Page](s.Pages, domain.CollectionPages, d, nil, nil)
	users := catalog[domain.User](s.Users, domain.CollectionUsers, d, nil, service.PrepareUser)
	bookings := catalog[domain.Booking](s.Bookings, domain.CollectionBookings, d, nil, nil)
	payments := catalog[domain.Payment](s.Payments, domain.CollectionPayments, d, nil, nil)

	content := service.NewContentService(s.Pages, s.ContentBlocks, d.Log.With().Str("component", "content").Logger())
	dashboard := service.NewDashboardService(s, d.Log.With().Str("component", "dashboard").Logger())
	notifications := service.NewNotificationService(s.Notifications, d.Log.With().Str("component", "notifications").Logger())
	bookingService := service.NewBookingService(s.Bookings, s.Packages, d.Notifier, d.Log.With().Str("component", "bookings").Logger())

	byOrder := &ports.Sort{Field: "order"}
	newest := &ports.Sort{Field: "created_at", Desc: true}
	resources := []interface {
		Name() string
		Register(api, pages *echo.Group)
	}{
		handler.NewResource(service.NewAdminFlow(destinations, byOrder), handler.DestinationSpec),
		handler.NewResource(service.NewAdminFlow(packages, byOrder), handler.PackageSpec),
		handler.NewResource(service.NewAdminFlow(tours, byOrder), handler.TourSpec),
		handler.NewResource(service.NewAdminFlow(policies, nil), handler.PolicySpec),
		handler.NewResource(service.NewAdminFlow(promotions, newest), handler.PromotionSpec),
		handler.NewResource(service.NewAdminFlow(faqs, byOrder), handler.FAQSpec),
		handler.NewResource(service.NewAdminFlow(pages, nil), handler.PageSpec),
		handler.NewResource(service.NewAdminFlow(users, newest), handler.UserSpec),
		handler.NewResource(service.NewAdminFlow(bookings, newest), handler.BookingSpec),
		handler.NewResource(service.NewAdminFlow(payments, newest), handler.PaymentSpec),
	}
	names := make([]string, 0, len(resources))
	for _, r := range resources {
		names = append(names, r.Name())
	}

	authHandler := handler.NewAuthHandler(d.Auth, d.SecureCookie)
	dashboardHandler := handler.NewDashboardHandler(dashboard, notifications, names)
	bookingHandler := handler.NewBookingHandler(bookingService, bookings)
	contentHandler := handler.NewContentHandler(content)
	publicHandler := handler.NewPublicHandler(handler.PublicCatalog{
		Destinations: destinations,
		Packages:     packages,
		Promotions:   promotions,
		Content:      content,
	}, d.Locales)

	// --- Operational routes ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(d.Health...).Readiness)

	// --- Auth routes ---
	e.GET("/auth/signin", authHandler.SignInPage)
	e.POST("/auth/signin", authHandler.SignInForm)
	e.POST("/auth/signout", authHandler.SignOutForm)
	e.POST("/api/auth/signup", authHandler.SignUp)
	e.POST("/api/auth/signin", authHandler.SignIn)
	e.POST("/api/auth/signout", authHandler.SignOut)

	// --- Dashboard ---
	// Services apply the read policy and the admin rule on every call.
	apiGroup := e.Group("/api/dashboard")
	pageGroup := e.Group("/dashboard")

	pageGroup.GET("", dashboardHandler.Overview, middleware.RequirePage(d.SignInPath, service.AccessSignedIn))
	apiGroup.GET("/revenue", dashboardHandler.Revenue)
	apiGroup.GET("/stats", dashboardHandler.Stats)
	apiGroup.GET("/notifications", dashboardHandler.Notifications)
	apiGroup.POST("/notifications/:id/read", dashboardHandler.MarkRead)

	for _, r := range resources {
		r.Register(apiGroup, pageGroup)
	}

	apiGroup.GET("/pages/:id/content", contentHandler.ListBlocks)
	apiGroup.POST("/pages/:id/content", contentHandler.CreateBlock)
	apiGroup.PATCH("/pages/:id/content", contentHandler.Reorder)
	apiGroup.PUT("/pages/:id/content/:blockId", contentHandler.UpdateBlock)
	apiGroup.DELETE("/pages/:id/content/:blockId", contentHandler.DeleteBlock)

	bookingGroup := e.Group("/api/bookings", middleware.RequireAPI(service.AccessSignedIn))
	bookingGroup.POST("", bookingHandler.Create)
	bookingGroup.PATCH("/:id/status", bookingHandler.UpdateStatus)
	bookingGroup.DELETE("/:id", bookingHandler.Delete)

	// --- Public site ---
	e.GET("/api/public-content/:slug", contentHandler.PublicContent)
	e.GET("/", publicHandler.Root)
	site := e.Group("/:locale", publicHandler.Locale)
	site.GET("", publicHandler.Home)
	site.GET("/pages/:slug", publicHandler.Page)
	site.GET("/destinations/:slug", publicHandler.Destination)
	site.GET("/packages/:slug", publicHandler.Package)

	return e, nil
}

// catalog builds the CatalogService of one collection with the configured
// read policy and submission guard.
func catalog[T any, PT interface {
	*T
	domain.Entity
}](repo ports.Repository[T], c domain.Collection, d Deps, scope ports.Filter, prepare func(entity, existing *T) error) *service.CatalogService[T, PT] {
	return service.NewCatalogService[T, PT](repo, service.CatalogOptions[T]{
		Collection: c,
		Read:       d.ReadPolicy.For(c),
		Scope:      scope,
		Guard:      d.Guard,
		Prepare:    prepare,
	}, d.Log)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
