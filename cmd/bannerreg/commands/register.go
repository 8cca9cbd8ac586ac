package commands

import (
	"bannerreg/lib/chrono"
	"bannerreg/lib/report"
	"bannerreg/lib/restyutil"
	"bannerreg/lib/scrapers/banner"
	"bannerreg/lib/telemetry"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var (
	registerConfig   *string
	registerCrns     *[]string
	registerAt       *string
	registerTerm     *string
	registerDumpHttp *string
	registerDryRun   *bool
)

func init() {
	flags := registerCmd.Flags()
	registerConfig = flags.String("config", "", "Path to the config file, bannerreg.json5 is searched for upward by default.")
	registerCrns = flags.StringSlice("crn", nil, "CRN to add, may be repeated. Replaces the crns from the config.")
	registerAt = flags.String("at", "", "Registration time, RFC3339 or \"2006-01-02 15:04:05\" in the configured timezone.")
	registerTerm = flags.String("term", "", "Term code, for example 202209.")
	registerDumpHttp = flags.String("dump-http", "", "Write every http exchange (credentials redacted) into this directory.")
	registerDryRun = flags.Bool("dry-run", false, "Log in and print the payload that would be submitted, without waiting or submitting.")
	rootCmd.AddCommand(registerCmd)
}

func applyRegisterFlags(cfg *Config) {
	if len(*registerCrns) > 0 {
		cfg.Crns = *registerCrns
	}
	if *registerAt != "" {
		cfg.RegistrationTime = *registerAt
	}
	if *registerTerm != "" {
		cfg.Term = *registerTerm
	}
}

func sendReport(ctx context.Context, cfg report.EmailConfig, body string) {
	if !cfg.Enabled() {
		return
	}
	err := report.Send(ctx, cfg, "Banner registration results", body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to email report", "err", err)
		return
	}
	slog.InfoContext(ctx, "report emailed", "to", cfg.To)
}

var registerCmd = &cobra.Command{
	Use:   "register [--config <file>] [--crn <crn>...] [--at <time>] [--term <code>] [--dump-http <dir>] [--dry-run]",
	Short: "Logs in, waits for the registration time and submits the CRNs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(*registerConfig, ".env")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyRegisterFlags(&cfg)

		clock, err := chrono.NewStandardImpl(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("failed to load timezone: %w", err)
		}
		target, err := ParseRegistrationTime(cfg.RegistrationTime, clock.Location())
		if err != nil {
			return fmt.Errorf("invalid registration time: %w", err)
		}

		opts := cfg.clientOptions(clock, target)
		if *registerDumpHttp != "" {
			output, err := restyutil.NewFilesystemOutput(*registerDumpHttp)
			if err != nil {
				return fmt.Errorf("failed to create http dump directory: %w", err)
			}
			opts.InstrumentOutput = output
		}

		client, err := banner.NewClient(opts)
		if err != nil {
			return fmt.Errorf("failed to create banner client: %w", err)
		}
		telemetry.InstrumentPerfStats(ctx, 30*time.Second)

		slog.InfoContext(
			ctx, "starting registration run",
			"run_id", client.RunId,
			"term", cfg.Term,
			"crns", cfg.Crns,
			"registration_time", target,
		)

		if *registerDryRun {
			err = client.Authenticate(ctx)
			if err == nil {
				err = client.SelectTerm(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to prepare registration: %w", err)
			}
			payload, err := client.Preview(ctx, cfg.Crns)
			if err != nil {
				return fmt.Errorf("failed to build payload: %w", err)
			}
			fmt.Println(payload)
			return nil
		}

		result, err := client.Run(ctx, cfg.Crns)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		rendered := report.Render(result)
		fmt.Print(rendered)
		sendReport(ctx, cfg.Email, rendered)
		return nil
	},
}
