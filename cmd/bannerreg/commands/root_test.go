package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteReturnsCommandError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "altpin.html")
	rootCmd.SetArgs([]string{"payload", "--term", "202209", "--records", missing})

	err := ExecuteContext(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), "failed to read records page")
}

func TestExecutePayload(t *testing.T) {
	page := filepath.Join("..", "..", "..", "lib", "scrapers", "banner", "testdata", "altpin_registered.html")
	rootCmd.SetArgs([]string{"payload", "--term", "202209", "--crn", "24680", "--records", page})

	require.NoError(t, ExecuteContext(context.Background()))
}
