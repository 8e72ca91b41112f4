package cmd

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/spf13/cobra"

	"facturation-backend/controllers"
	"facturation-backend/database"
	"facturation-backend/imagestudio"
	"facturation-backend/logger"
	"facturation-backend/middlewares"
	"facturation-backend/preview"
	"facturation-backend/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Example: `  # Listen on the port from PORT (default 8080)
  facturation serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	if err := connect(); err != nil {
		return err
	}

	auth, err := middlewares.NewAuth(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	images := &controllers.ImageController{}
	if cfg.ImagesEnabled() {
		images.Studio = imagestudio.New(cfg.OpenAIAPIKey, cfg.OpenAIImageModel, logger.WithComponent("imagestudio"))
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, image endpoints disabled")
	}

	gateway := database.NewSettingsStore(database.DB)
	deps := routes.Deps{
		DB:   database.DB,
		Auth: auth,
		Settings: &controllers.SettingsController{
			Gateway: gateway,
			PDF:     preview.PDFOptions{FontPath: cfg.PDFFontPath},
		},
		Numbering: &controllers.NumberingController{
			Gateway:   gateway,
			Sequences: database.NewSequenceStore(database.DB),
		},
		Images: images,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    cfg.BodyLimitMB << 20,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false, // bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// Default KeyGenerator is the client IP.
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: time.Duration(cfg.RateLimitSecs) * time.Second,
	}))

	app.Use(logger.Middleware(logger.WithComponent("http")))

	routes.Register(app, deps)

	log.Info().Str("port", cfg.Port).Str("version", version).Msg("API server starting")
	return app.Listen(":" + cfg.Port)
}
