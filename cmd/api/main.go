package main

import (
	"context"
	"fmt"
	common_api "go-dashboard/internal/common/api"
	"go-dashboard/internal/config"
	cron_feature "go-dashboard/internal/features/cron"
	"go-dashboard/internal/features/events"
	"go-dashboard/internal/features/report"
	"go-dashboard/internal/features/system"
	"go-dashboard/internal/logger"
	"go-dashboard/internal/middleware"
	"go-dashboard/internal/upstream"
	"go-dashboard/pkg/utils"
	"log"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const idleSweepJob = "idle-view-sweep"

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartScheduler registers the idle-view sweep and runs the scheduler for
// the lifetime of the app.
func StartScheduler(lc fx.Lifecycle, cronService cron_feature.CronService, reportService report.ReportService, cfg *config.Config) error {
	if err := cronService.RegisterJob(idleSweepJob, cfg.SweepSchedule, reportService.SweepIdle); err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return cronService.InitializeScheduler()
		},
		OnStop: func(ctx context.Context) error {
			return cronService.StopScheduler()
		},
	})
	return nil
}

// @title           Field Dashboard Report API
// @version         1.0
// @description     Mounts report views for the dashboard and proxies the reporting API.

// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewRecentLog,
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Upstream reporting API
			upstream.NewReportClient,

			// Initialize Repository
			report.NewViewRepository,

			events.NewHub,
			report.NewReportService,
			cron_feature.NewCronService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(h *events.Hub) events.Publisher { return h },
			report.NewEventGuard,

			// Initialize Controller
			report.NewReportController,
			events.NewEventsController,
			cron_feature.NewCronController,
			system.NewDebugController,

			// Initialize API Routes
			AsRoute(report.NewReportApi),
			AsRoute(events.NewEventsApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartScheduler,
		),
	)

	app.Run()
}
