package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"facturation-backend/controllers"
	"facturation-backend/middlewares"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	DB        *gorm.DB
	Auth      *middlewares.Auth
	Settings  *controllers.SettingsController
	Numbering *controllers.NumberingController
	Images    *controllers.ImageController
}

// Register wires all HTTP routes.
func Register(app *fiber.App, d Deps) {
	api := app.Group("/api")

	// Public endpoints
	authCtl := &controllers.AuthController{DB: d.DB, Auth: d.Auth}
	api.Get("/health", controllers.Health(d.DB))
	api.Post("/registration", authCtl.Register)
	api.Post("/login", authCtl.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("", d.Auth.Required())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency(d.DB))

	// Settings, numbering, pricing and images use their own short transactions.
	protected.Get("/settings", d.Settings.Get)
	protected.Put("/settings", d.Settings.Put)
	protected.Get("/settings/export", d.Settings.Export)
	protected.Post("/settings/import", d.Settings.Import)
	protected.Post("/settings/columns", d.Settings.Columns)
	protected.Get("/settings/preview/:kind.:format", d.Settings.Preview)
	protected.Post("/settings/preview/:kind.:format", d.Settings.Preview)

	protected.Post("/numbering/preview", d.Numbering.Preview)
	protected.Post("/numbering/:kind/next", d.Numbering.Next)

	protected.Post("/pricing/convert", controllers.ConvertPrice)

	protected.Post("/images/generate", d.Images.Generate)
	protected.Post("/images/edit", d.Images.Edit)

	// Catalog: per-request tenant transaction (pins search_path and commits/rolls back)
	tenantTx := middlewares.TenantTx(d.DB)

	products := protected.Group("/products", tenantTx)
	products.Post("", controllers.CreateProduct)
	products.Get("", controllers.GetProducts)
	products.Get("/:id", controllers.GetProduct)
	products.Put("/:id", controllers.UpdateProduct)

	clients := protected.Group("/clients", tenantTx)
	clients.Post("", controllers.CreateClient)
	clients.Get("", controllers.GetClients)
	clients.Get("/:id", controllers.GetClient)
	clients.Put("/:id", controllers.UpdateClient)

	suppliers := protected.Group("/suppliers", tenantTx)
	suppliers.Post("", controllers.CreateSupplier)
	suppliers.Get("", controllers.GetSuppliers)
	suppliers.Get("/:id", controllers.GetSupplier)
	suppliers.Put("/:id", controllers.UpdateSupplier)
}
