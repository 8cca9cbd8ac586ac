package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("bannerreg.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("process_cpu_percent")
var rssGauge, _ = meter.Int64Gauge("process_rss_mb")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

type PerfStats struct {
	CPUPercent   float64
	RSSMegabytes int64
	Goroutines   int64
}

// ReadPerfStats samples the current process.
func ReadPerfStats(ctx context.Context) (PerfStats, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return PerfStats{}, err
	}
	cpu, err := proc.CPUPercentWithContext(ctx)
	if err != nil {
		return PerfStats{}, err
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return PerfStats{}, err
	}
	return PerfStats{
		CPUPercent:   cpu,
		RSSMegabytes: int64(mem.RSS / 1_000_000),
		Goroutines:   int64(runtime.NumGoroutine()),
	}, nil
}

// InstrumentPerfStats records process stats every interval until ctx is
// done, a registration run may sit waiting for hours.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats, err := ReadPerfStats(ctx)
				if err != nil {
					slog.DebugContext(ctx, "failed to read process stats", "err", err)
					continue
				}
				cpuGauge.Record(ctx, stats.CPUPercent)
				rssGauge.Record(ctx, stats.RSSMegabytes)
				goroutineGauge.Record(ctx, stats.Goroutines)
			case <-ctx.Done():
				return
			}
		}
	}()
}
