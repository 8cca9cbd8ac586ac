package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadPerfStats(t *testing.T) {
	stats, err := ReadPerfStats(context.Background())
	require.NoError(t, err)
	require.Greater(t, stats.RSSMegabytes, int64(0))
	require.GreaterOrEqual(t, stats.Goroutines, int64(1))
	require.GreaterOrEqual(t, stats.CPUPercent, float64(0))
}
