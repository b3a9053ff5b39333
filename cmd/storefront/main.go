package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
	"github.com/jhoicas/petshop-storefront/internal/application/visitor"
	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
	infrapdf "github.com/jhoicas/petshop-storefront/internal/infrastructure/pdf"
	"github.com/jhoicas/petshop-storefront/internal/infrastructure/petapi"
	"github.com/jhoicas/petshop-storefront/internal/infrastructure/postgres"
	"github.com/jhoicas/petshop-storefront/internal/infrastructure/sessionstore"
	httpRouter "github.com/jhoicas/petshop-storefront/internal/interfaces/http"
	"github.com/jhoicas/petshop-storefront/pkg/config"
	"github.com/jhoicas/petshop-storefront/pkg/logger"
	"github.com/jhoicas/petshop-storefront/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Str("session_driver", cfg.Session.Driver).
		Msg("iniciando storefront")

	ctx := context.Background()
	storage, closeStorage, err := openSessionStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Session.Driver).Msg("almacenamiento de sesión")
	}
	defer closeStorage()

	api := petapi.New(cfg.API, log.Component("petapi"))
	m := metrics.New("storefront")

	cartUC := usecase.NewCartUseCase(api, log.Component("cart"))
	catalogUC := usecase.NewCatalogUseCase(api)
	addressUC := usecase.NewAddressUseCase(api)
	adminUC := usecase.NewAdminUseCase(api)

	// PDF: comprobante del pedido
	receipts := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name, cfg.App.PublicURL)
	orderUC := usecase.NewOrderUseCase(api, receipts)

	registry := visitor.NewRegistry(visitor.Options{
		AuthAPI: api,
		StorageFor: func(id string) repository.SessionStorage {
			return sessionstore.Scope(storage, id)
		},
		SuccessTTL:  time.Duration(cfg.Notify.SuccessSeconds) * time.Second,
		ErrorTTL:    time.Duration(cfg.Notify.ErrorSeconds) * time.Second,
		LoginLimit:  rate.Limit(float64(cfg.Login.PerMinute) / 60),
		LoginBurst:  cfg.Login.Burst,
		IdleTimeout: cfg.Session.IdleTimeout(),
		Observer:    m,
		Active:      m.ActiveVisitors,
		Log:         log.Component("session"),
	})

	sweeper, err := visitor.NewSweeper(registry, cfg.Session.SweepSpec, log.Component("sweeper"))
	if err != nil {
		log.Fatal().Err(err).Msg("barrido de visitantes")
	}
	sweeper.Start()

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"))

	// Swagger UI en local: http://localhost:<port>/docs (solo si el JSON está generado)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Pet Shop Storefront",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "visitors": registry.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registry: registry,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.App.Env == "production",
		},
		CatalogUC:  catalogUC,
		CartUC:     cartUC,
		AddressUC:  addressUC,
		OrderUC:    orderUC,
		AdminUC:    adminUC,
		AddressAPI: api,
		OrderAPI:   api,
		Metrics:    m,
		Log:        log.Component("checkout"),
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

	<-sweeper.Stop().Done()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("storefront detenido")
}

// openSessionStorage abre el almacenamiento según SESSION_DRIVER. El cierre
// devuelto libera conexiones (no-op para memory y file).
func openSessionStorage(ctx context.Context, cfg *config.Config) (repository.SessionStorage, func(), error) {
	nop := func() {}
	switch cfg.Session.Driver {
	case config.SessionDriverFile:
		f, err := sessionstore.OpenFile(cfg.Session.FilePath, cfg.Session.SecretKey)
		if err != nil {
			return nil, nop, err
		}
		return f, nop, nil
	case config.SessionDriverRedis:
		r, err := sessionstore.NewRedis(ctx, cfg.Redis, 30*24*time.Hour)
		if err != nil {
			return nil, nop, err
		}
		return r, func() { _ = r.Close() }, nil
	case config.SessionDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nop, err
		}
		s, err := postgres.NewSessionStorage(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nop, err
		}
		return s, pool.Close, nil
	default:
		return sessionstore.NewMemory(), nop, nil
	}
}
