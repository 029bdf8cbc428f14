package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"masingacdf_backend/internals/configs"
	databases "masingacdf_backend/internals/databases"
	helper "masingacdf_backend/internals/helpers"
	"masingacdf_backend/internals/middlewares"
	"masingacdf_backend/internals/route"
	"masingacdf_backend/internals/scheduler"

	analyticsService "masingacdf_backend/internals/features/analytics/service"
	notifService "masingacdf_backend/internals/features/notifications/service"
)

func main() {
	// =========================
	// 🔧 ENV & DATABASE
	// =========================
	configs.LoadEnv()

	databases.ConnectDB()
	databases.TunePool()
	databases.MigrateModels()
	go databases.WarmUpQueries()

	// =========================
	// 🚀 FIBER APP
	// =========================
	app := fiber.New(fiber.Config{
		AppName:      configs.AppName,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.FromFiberError,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    10 * 1024 * 1024, // document uploads
	})

	app.Use(requestid.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(etag.New())

	// Per-request deadline + slow request log
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)

		start := time.Now()
		err := c.Next()
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			log.Printf("[SLOW] %s %s took %s", c.Method(), c.Path(), elapsed)
		}
		return err
	})

	middlewares.SetupMiddlewares(app)

	// =========================
	// 📨 NOTIFICATIONS
	// =========================
	emailSvc := notifService.NewEmailService(configs.LoadSMTPConfig())
	smsSvc := notifService.NewSMSService(configs.LoadSMSConfig())
	notifier := notifService.NewNotificationManager(emailSvc, smsSvc)
	bulkEmail := notifService.NewBulkEmailService(emailSvc)

	dispatcher := notifService.NewDispatcher(3, 128)
	dispatcher.Start()

	analytics := analyticsService.NewAnalyticsService(databases.DB)

	cronRunner := scheduler.Start(databases.DB, smsSvc)

	// =========================
	// 🛣️ ROUTES
	// =========================
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := databases.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	route.SetupRoutes(app, route.Deps{
		DB:         databases.DB,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		BulkEmail:  bulkEmail,
		SMS:        smsSvc,
		Analytics:  analytics,
	})

	// =========================
	// 🟢 START & GRACEFUL STOP
	// =========================
	port := configs.GetEnv("PORT", "8080")
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("❌ server stopped: %v", err)
		}
	}()
	log.Printf("✅ server listening on :%s", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("🔄 shutting down...")

	cronRunner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("[ERROR] server shutdown: %v", err)
	}

	dispatcher.Stop()

	if sqlDB, err := databases.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("[ERROR] close database: %v", err)
		}
	}

	log.Println("✅ shutdown complete")
}
