package commands

import (
	"bannerreg/lib/chrono"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRegistrationTime(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "empty",
			value: "",
			want:  time.Time{},
		},
		{
			name:  "layout in zone",
			value: "2022-04-04 07:00:00",
			want:  time.Date(2022, time.April, 4, 11, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			value: "2022-04-04T07:00:00-04:00",
			want:  time.Date(2022, time.April, 4, 11, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 utc",
			value: "2022-11-07T12:00:00Z",
			want:  time.Date(2022, time.November, 7, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRegistrationTime(tc.value, newYork)
			require.NoError(t, err)
			require.True(t, tc.want.Equal(got), "got %s, want %s", got, tc.want)
		})
	}

	_, err = ParseRegistrationTime("next tuesday", newYork)
	require.Error(t, err)
}

func writeConfig(t testing.TB, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "bannerreg.json5", `{
		term: "202209",
		student_id: "800000000",
		pin: "from-file",
		registration_time: "2022-04-04 07:00:00",
		crns: ["12345", "67890"],
		poll_interval_ms: 50,
		selectors: { errors: "table.errors" },
		email: { server: "smtp.example.com", port: 587, to: ["me@example.com"] },
	}`)
	writeConfig(t, dir, "bannerreg.local.json5", `{ crns: ["24680"] }`)
	envFile := writeConfig(t, dir, ".env", "BANNER_PIN=from-dotenv\n")

	t.Setenv("BANNER_STUDENT_ID", "800123456")
	t.Setenv("BANNER_PIN", "")
	os.Unsetenv("BANNER_PIN")

	cfg, err := loadConfig(path, envFile)
	require.NoError(t, err)
	require.Equal(t, "202209", cfg.Term)
	require.Equal(t, "800123456", cfg.StudentId)
	require.Equal(t, "from-dotenv", cfg.Pin)
	require.Equal(t, []string{"24680"}, cfg.Crns)
	require.Equal(t, defaultTimezone, cfg.Timezone)
	require.Equal(t, "table.errors", cfg.Selectors.Errors)
	require.True(t, cfg.Email.Enabled())

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	require.NoError(t, err)
	target, err := ParseRegistrationTime(cfg.RegistrationTime, clock.Location())
	require.NoError(t, err)

	opts := cfg.clientOptions(clock, target)
	require.Equal(t, "800123456", opts.Credentials.StudentID)
	require.Equal(t, "from-dotenv", opts.Credentials.PIN)
	require.Equal(t, 50*time.Millisecond, opts.PollInterval)
	require.Zero(t, opts.Timeout)
	require.True(t, target.Equal(opts.RegistrationTime))
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv("BANNER_STUDENT_ID", "800123456")
	t.Setenv("BANNER_PIN", "135790")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "bannerreg.json5"))
	require.NoError(t, err)
	require.Equal(t, "800123456", cfg.StudentId)
	require.Equal(t, "135790", cfg.Pin)
	require.Equal(t, defaultTimezone, cfg.Timezone)
}

func TestApplyRegisterFlags(t *testing.T) {
	cfg := Config{Term: "202209", Crns: []string{"12345"}}
	*registerCrns = []string{"1", "2"}
	*registerTerm = "202301"
	t.Cleanup(func() {
		*registerCrns = nil
		*registerTerm = ""
	})

	applyRegisterFlags(&cfg)
	require.Equal(t, "202301", cfg.Term)
	require.Equal(t, []string{"1", "2"}, cfg.Crns)
	require.Empty(t, cfg.RegistrationTime)
}
