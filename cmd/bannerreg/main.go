package main

import (
	"bannerreg/cmd/bannerreg/commands"
	"bannerreg/lib/osutil"
	"bannerreg/lib/telemetry"
	"context"
	"log/slog"
	"os"
	"time"
)

func run(ctx context.Context) int {
	t, err := telemetry.SetupFromEnv(ctx, "bannerreg")
	if err != nil {
		osutil.Fatal("failed to setup telemetry", err)
	}
	// flushed on every exit path, a failed run is the one worth tracing
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := t.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}()

	err = commands.ExecuteContext(ctx)
	if err != nil {
		slog.Error("command failed", "err", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := osutil.SignalContext(context.Background())
	telemetry.InitSlog(false)

	code := run(ctx)
	stop()
	os.Exit(code)
}
