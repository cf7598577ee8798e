package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"orbit.events/configs/configsapp"
	"orbit.events/configs/configsdatabase"
	"orbit.events/configs/configslog"
	"orbit.events/routes"
	"orbit.events/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configsapp.Load()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:   engine,
		AppName: "orbit.events",
	})

	routes.SetupRoutes(app, cfg)

	scheduler := startResetScheduler(cfg)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	go func() {
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			configslog.Log.Fatal("server stopped", zap.Error(err))
		}
	}()
	configslog.SLog.Infof("listening on :%s", cfg.AppPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	configslog.SLog.Info("shutting down...")
	if err := app.Shutdown(); err != nil {
		configslog.Log.Error("shutdown error", zap.Error(err))
	}
}

// startResetScheduler runs the daily reseed in-process. The external cron
// endpoint stays available either way; overlap is handled by the reset
// service's own guard and by idempotent convergence.
func startResetScheduler(cfg configsapp.Config) *cron.Cron {
	if cfg.ResetHostEmail == "" {
		configslog.SLog.Info("RESET_HOST_EMAIL not set, daily reset scheduler disabled")
		return nil
	}

	resetService := services.NewResetService(cfg)
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		result, err := resetService.Run(context.Background(), cfg.ResetMode)
		if err != nil {
			configslog.Log.Error("scheduled reset failed", zap.String("mode", string(cfg.ResetMode)), zap.Error(err))
			return
		}
		configslog.SLog.Infow("scheduled reset finished",
			"mode", result.Mode, "removed", result.Removed, "inserted", result.Inserted)
	})
	if err != nil {
		configslog.Log.Error("reset schedule could not be registered", zap.Error(err))
		return nil
	}
	c.Start()
	configslog.SLog.Infof("daily reset scheduler started (mode=%s)", cfg.ResetMode)
	return c
}
