package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scenespin/reference-sync/core/config"
	"github.com/scenespin/reference-sync/core/loader"
	"github.com/scenespin/reference-sync/core/logger"
	"github.com/scenespin/reference-sync/core/middleware/auth"
	"github.com/scenespin/reference-sync/core/middleware/rayid"
	"github.com/scenespin/reference-sync/core/storage"
	"github.com/scenespin/reference-sync/core/urlcache"

	"github.com/scenespin/reference-sync/feature/catalog"
	"github.com/scenespin/reference-sync/feature/jobs"
	"github.com/scenespin/reference-sync/feature/references"
	"github.com/scenespin/reference-sync/feature/scenes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reference sync server",
	Long:  `Starts the HTTP server, the job poller, and the presentation endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if !cfg.Resolver.IsValidMode() {
			log.Fatalf("Invalid resolver mode: %q", cfg.Resolver.Mode)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		scope := cfg.Server.Workspace
		logg = logg.With(zap.String("workspace", scope))

		// 3. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		if exists, err := store.BucketExists(ctx, cfg.Storage.Bucket); err != nil || !exists {
			logg.Warn("Media bucket not reachable at startup",
				zap.String("bucket", cfg.Storage.Bucket),
				zap.Error(err),
			)
		}
		stop()

		// 4. URL resolver (proxy or signed mode)
		var issuer urlcache.Issuer
		if cfg.Resolver.Mode == urlcache.ModeSigned {
			issuer = urlcache.NewStorageIssuer(store, cfg.Storage.Bucket, logg)
		}
		resolver := urlcache.NewResolver(cfg.Resolver, issuer, logg)

		lister := catalog.NewStorageLister(store, cfg.Storage.Bucket, logg)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Features
		mgr := loader.NewManager()

		refsFeature := references.NewFeature(lister, resolver, logg, scope)
		scenesFeature := scenes.NewFeature(lister, logg, scope)
		jobsFeature := jobs.NewFeature(
			jobs.NewHTTPClient(cfg.Jobs.ServiceURL, cfg.Jobs.ServiceApiKey),
			cfg.Jobs, logg, scope,
		)

		// Job completion invalidates the dependent view caches so newly
		// generated objects appear on the next query.
		jobsFeature.Service().Store().OnCompletion(func(job *jobs.Job) {
			logg.Info("Job completed, invalidating view caches",
				zap.String("job_id", job.ID),
				zap.String("type", job.Type),
			)
			refsFeature.Service().InvalidateScope()
			scenesFeature.Service().Invalidate()
		})

		mgr.Register(refsFeature)
		mgr.Register(scenesFeature)
		mgr.Register(jobsFeature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Metrics (Public)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		jobsFeature.Stop()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
