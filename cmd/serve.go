package cmd

import (
	"context"
	"fmt"
	"log"
	netHttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHttp "crypto-meanrev/internal/delivery/http"
	"crypto-meanrev/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run on a schedule and expose the latest snapshot over HTTP",
	Run:   Serve,
}

func Serve(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer dep.Close()

	e := echo.New()
	e.HideBanner = true
	handler := deliveryHttp.NewHttpAPIHandler(e, dep.cache, dep.log)
	handler.SetupRoutes()

	go func() {
		dep.log.Info("Starting HTTP server", logger.IntField("port", dep.cfg.API.Port))
		if err := e.Start(fmt.Sprintf(":%d", dep.cfg.API.Port)); err != nil && err != netHttp.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	runJob := func() {
		if _, err := snapshotRun(ctx, dep); err != nil {
			dep.log.Error("Scheduled run failed", logger.ErrorField(err))
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(dep.cfg.Scheduler.CronSpec, runJob); err != nil {
		log.Fatalf("Invalid cron spec %q: %v", dep.cfg.Scheduler.CronSpec, err)
	}
	scheduler.Start()
	dep.log.Info("Scheduler started", logger.StringField("cron", dep.cfg.Scheduler.CronSpec))

	// Warm the snapshot so the API has something to serve before the
	// first scheduled tick.
	go runJob()

	<-ctx.Done()
	dep.log.Info("Shutting down gracefully")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		dep.log.Error("Error stopping HTTP server", logger.ErrorField(err))
	}
}
