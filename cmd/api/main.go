package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/formaciones-api/internal/application/analytics"
	"github.com/jhoicas/formaciones-api/internal/application/assessment"
	"github.com/jhoicas/formaciones-api/internal/application/catalog"
	"github.com/jhoicas/formaciones-api/internal/application/course"
	"github.com/jhoicas/formaciones-api/internal/application/enrollment"
	"github.com/jhoicas/formaciones-api/internal/application/notification"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/application/session"
	"github.com/jhoicas/formaciones-api/internal/application/user"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/docstore"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/events"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/formaciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/redisbus"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/formaciones-api/internal/interfaces/http"
	"github.com/jhoicas/formaciones-api/pkg/config"
	"github.com/jhoicas/formaciones-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacén documental: memoria (desarrollo) o PostgreSQL.
	var store docstore.Store
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		store = postgres.NewDocumentStore(pool)
	default:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		store = docstore.NewMemoryStore()
	}
	repos := docstore.NewRepositories(store)
	txRunner := docstore.NewTxRunner(store)

	// Correo: relay HTTP si está configurado; si no, solo log.
	var mailer ports.MailDispatcher
	if cfg.Mail.RelayURL != "" {
		mailer = mail.NewRelayDispatcher(cfg.Mail.RelayURL, cfg.Mail.From, cfg.Mail.Timeout())
	} else {
		mailer = mail.NewLogDispatcher(log.Component("mail"))
	}

	// Bus de eventos: notificaciones y, opcionalmente, réplica en Redis.
	bus := events.NewBus(cfg.Events.Buffer, cfg.Events.Workers, log.Component("events"))
	notifier := notification.NewNotifier(repos.Users, mailer, log.Component("notifier"))
	bus.Subscribe("notifier", notifier.Handle)
	if cfg.Redis.Addr != "" {
		mirror, err := redisbus.NewPublisher(cfg.Redis, log.Component("redis"))
		if err != nil {
			log.Error().Err(err).Msg("réplica Redis deshabilitada")
		} else {
			defer mirror.Close()
			bus.Subscribe("redis", mirror.Handle)
		}
	}

	catalogUC := catalog.NewUseCase(repos, txRunner)
	courseUC := course.NewUseCase(repos, txRunner, bus, log.Component("course"))
	enrollmentUC := enrollment.NewUseCase(repos, txRunner, bus, log.Component("enrollment"))
	ledger := enrollment.NewLedger(repos)
	userUC := user.NewUseCase(repos, txRunner, bus, log.Component("user"))
	dashboardUC := appanalytics.NewDashboardUseCase(courseUC, repos.Enrollments, repos.Users)
	rosterUC := appanalytics.NewRosterUseCase(courseUC, repos, infrapdf.NewMarotoPDFGenerator())
	assessmentUC := assessment.NewUseCase(repos, log.Component("assessment"))
	sessionUC := session.NewUseCase(repos, txRunner, log.Component("session"))

	var sweeper *scheduler.Sweeper
	if cfg.Events.SweepSpec != "" {
		sweeper, err = scheduler.NewSweeper(cfg.Events.SweepSpec, courseUC, log.Component("sweeper"))
		if err != nil {
			log.Fatal().Err(err).Msg("barrido de expiración")
		}
		sweeper.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Formaciones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "dropped_events": bus.Dropped()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:    catalogUC,
		CourseUC:     courseUC,
		EnrollmentUC: enrollmentUC,
		Ledger:       ledger,
		UserUC:       userUC,
		DashboardUC:  dashboardUC,
		RosterUC:     rosterUC,
		AssessmentUC: assessmentUC,
		SessionUC:    sessionUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	// Entregar los eventos pendientes antes de cerrar Redis y el pool.
	bus.Close()

	log.Info().Msg("aplicación detenida")
}
