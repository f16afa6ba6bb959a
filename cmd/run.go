package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHttp "crypto-meanrev/internal/delivery/http"
	"crypto-meanrev/internal/dto"
	"crypto-meanrev/internal/report"
	"crypto-meanrev/pkg/logger"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform one snapshot run and send the report",
	RunE:  Run,
}

func Run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dep, err := NewAppDependency()
	if err != nil {
		return err
	}
	defer dep.Close()

	_, err = snapshotRun(ctx, dep)
	return err
}

// snapshotRun performs one full fetch → classify → report → notify pass.
// A universe or panel failure degrades into a short skip notice instead of
// an error; only a failed notification surfaces to the caller.
func snapshotRun(ctx context.Context, dep *AppDependency) (*dto.SignalSnapshot, error) {
	market, err := dep.service.BuildUniverse(ctx)
	if err != nil {
		dep.log.Error("Universe build failed, skipping run", logger.ErrorField(err))
		notifyDegraded(ctx, dep, "market data unavailable", err)
		return nil, nil
	}

	panel, err := dep.service.BuildPricePanel(ctx, market)
	if err != nil {
		dep.log.Error("Price panel build failed, skipping run", logger.ErrorField(err))
		notifyDegraded(ctx, dep, "prices unavailable", err)
		return nil, nil
	}

	buys, sells := dep.service.BuildSignals(market, panel)

	now := time.Now()
	snap := &dto.SignalSnapshot{
		GeneratedAt: now.Format(time.RFC3339),
		Buys:        buys,
		Sells:       sells,
	}
	dep.cache.Set(deliveryHttp.SnapshotCacheKey, snap, dep.cfg.Cache.DefaultExpiration)

	msg := report.Build(dep.cfg, now, buys, sells)
	if dep.notifier == nil {
		dep.log.Info("Report built", logger.StringField("report", msg))
		return snap, nil
	}
	if err := dep.notifier.Broadcast(ctx, msg); err != nil {
		dep.log.Error("Failed to deliver report", logger.ErrorField(err))
		return snap, err
	}
	return snap, nil
}

func notifyDegraded(ctx context.Context, dep *AppDependency, reason string, cause error) {
	if dep.notifier == nil {
		return
	}
	notice := report.BuildSkipNotice(reason, cause)
	if err := dep.notifier.Broadcast(ctx, notice); err != nil {
		dep.log.Error("Failed to deliver skip notice", logger.ErrorField(err))
	}
}
