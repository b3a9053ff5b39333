package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/petshop-storefront/internal/application/guard"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
	"github.com/jhoicas/petshop-storefront/internal/application/visitor"
	"github.com/jhoicas/petshop-storefront/pkg/metrics"
)

// NewApp crea la app Fiber con el interceptor de errores instalado.
func NewApp(name string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry   *visitor.Registry
	Cookie     CookieConfig
	CatalogUC  *usecase.CatalogUseCase
	CartUC     *usecase.CartUseCase
	AddressUC  *usecase.AddressUseCase
	OrderUC    *usecase.OrderUseCase
	AdminUC    *usecase.AdminUseCase
	AddressAPI ports.AddressAPI
	OrderAPI   ports.OrderAPI
	Metrics    *metrics.Metrics
	Log        zerolog.Logger
}

// Router registra las rutas del storefront.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Use(VisitorMiddleware(deps.Registry, deps.Cookie))

	// Sesión (público)
	authHandler := NewAuthHandler(deps.CartUC)
	app.Get("/session", authHandler.Session)
	app.Get(guard.LoginPath, authHandler.LoginPage)
	app.Post(guard.LoginPath, authHandler.Login)
	app.Post("/register", authHandler.Register)
	app.Post("/logout", authHandler.Logout)
	app.Get(guard.UnauthorizedPath, authHandler.Unauthorized)

	notifications := app.Group("/notifications")
	notificationHandler := NewNotificationHandler()
	notifications.Get("/", notificationHandler.List)
	notifications.Delete("/:id", notificationHandler.Dismiss)

	// Catálogo (público)
	products := app.Group("/products")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products.Get("/", catalogHandler.List)
	products.Get("/:id", catalogHandler.GetByID)

	// Cliente autenticado
	signedIn := RequireAccess(guard.Authenticated(), deps.Metrics)

	cart := app.Group("/cart", signedIn)
	cartHandler := NewCartHandler(deps.CartUC)
	cart.Get("/", cartHandler.Get)
	cart.Post("/items", cartHandler.Add)
	cart.Put("/items/:id", cartHandler.Update)
	cart.Delete("/items/:id", cartHandler.Remove)

	addresses := app.Group("/addresses", signedIn)
	addressHandler := NewAddressHandler(deps.AddressUC)
	addresses.Get("/", addressHandler.List)
	addresses.Post("/", addressHandler.Create)
	addresses.Put("/:id/default", addressHandler.SetDefault)
	addresses.Delete("/:id", addressHandler.Delete)

	checkoutGroup := app.Group("/checkout", signedIn)
	checkoutHandler := NewCheckoutHandler(deps.AddressAPI, deps.OrderAPI, deps.CartUC, deps.Metrics, deps.Log)
	checkoutGroup.Get("/", checkoutHandler.Show)
	checkoutGroup.Post("/start", checkoutHandler.Start)
	checkoutGroup.Post("/reload", checkoutHandler.Reload)
	checkoutGroup.Post("/address", checkoutHandler.SelectAddress)
	checkoutGroup.Post("/payment", checkoutHandler.SetPayment)
	checkoutGroup.Post("/next", checkoutHandler.Next)
	checkoutGroup.Post("/back", checkoutHandler.Back)
	checkoutGroup.Delete("/", checkoutHandler.Cancel)

	orders := app.Group("/orders", signedIn)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", orderHandler.Mine)
	orders.Get("/:code", orderHandler.GetByCode)
	orders.Post("/:code/cancel", orderHandler.Cancel)
	orders.Get("/:code/receipt", orderHandler.Receipt)

	// Personal de tienda
	staff := app.Group("/staff", RequireAccess(guard.EmployeeOrAdmin(), deps.Metrics))
	staff.Get("/orders", orderHandler.All)
	staff.Put("/orders/:code/status", orderHandler.UpdateStatus)

	// Administración
	admin := app.Group("/admin", RequireAccess(guard.Admin(), deps.Metrics))
	adminHandler := NewAdminHandler(deps.AdminUC)
	admin.Get("/users", adminHandler.Users)
}
