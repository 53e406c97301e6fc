package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

// NewSchedulerCommand creates the scheduler command with subcommands
func NewSchedulerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run background jobs and inspect their health",
		Long: `Run the time-driven sweeps by hand, or ask the daemon how its jobs are doing.

Jobs: weapon_impacts, mission_completion, defense_maintenance, notification_retention

Examples:
  wmd scheduler run weapon_impacts
  wmd scheduler run weapon_impacts --remote
  wmd scheduler health`,
	}

	cmd.AddCommand(newSchedulerRunCommand())
	cmd.AddCommand(newSchedulerHealthCommand())

	return cmd
}

func newSchedulerRunCommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "run <job>",
		Short: "Run one job immediately",
		Long: `Run one job immediately.

By default the job runs in this process against the configured database.
With --remote the daemon runs it, so its health counters are updated.`,
		Args: requireArg("job"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				return runRemoteJob(cmd, args[0])
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.NewScheduler()
				if err != nil {
					return err
				}
				runErr := s.RunNow(ctx, args[0])
				h, err := s.JobHealth(args[0])
				if err != nil {
					return err
				}
				if err := output(cmd.OutOrStdout(), h, func() {
					if runErr == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "✓ %s completed in %s\n", h.Name, h.LastDuration.Round(time.Millisecond))
					}
				}); err != nil {
					return err
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the running daemon to run the job")

	return cmd
}

func newSchedulerHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the daemon's job health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var health daemonHealth
			if err := daemonRequest(cmd.Context(), http.MethodGet, cfg.Daemon.HTTPAddr, "/healthz", &health); err != nil {
				return err
			}

			return output(cmd.OutOrStdout(), health, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon status: %s\n\n", health.Status)
				tw := newTable(cmd.OutOrStdout(), "Job", "Interval", "Runs", "Errors", "Skipped", "Avg", "Last Run", "Next Run", "Last Error")
				for _, j := range health.Jobs {
					lastErr := j.LastError
					if lastErr == "" {
						lastErr = "-"
					}
					next := j.NextRun
					tw.AppendRow([]interface{}{j.Name, j.Interval, j.ExecutionCount, j.ErrorCount, j.SkippedCount,
						j.AverageExecutionTime, formatTime(j.LastRun), formatTime(&next), lastErr})
				}
				tw.Render()
			})
		},
	}
}

// daemonHealth mirrors the /healthz document
type daemonHealth struct {
	Status string `json:"status"`
	Jobs   []struct {
		Name                 string     `json:"name"`
		Interval             string     `json:"interval"`
		LastRun              *time.Time `json:"last_run"`
		NextRun              time.Time  `json:"next_run"`
		ExecutionCount       int64      `json:"execution_count"`
		ErrorCount           int64      `json:"error_count"`
		SkippedCount         int64      `json:"skipped_count"`
		AverageExecutionTime string     `json:"average_execution_time"`
		IsRunning            bool       `json:"is_running"`
		LastError            string     `json:"last_error"`
	} `json:"jobs"`
}

func runRemoteJob(cmd *cobra.Command, name string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var result map[string]string
	if err := daemonRequest(cmd.Context(), http.MethodPost, cfg.Daemon.HTTPAddr, "/jobs/"+name+"/run", &result); err != nil {
		return err
	}
	return output(cmd.OutOrStdout(), result, func() {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Daemon ran %s\n", name)
	})
}

// daemonRequest calls the daemon's HTTP surface and decodes the JSON body into
// out. Non-2xx responses are reported with the daemon's error message.
func daemonRequest(ctx context.Context, method, addr, path string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, "http://"+addr+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon at %s (is wmd-daemon running?): %w", addr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusServiceUnavailable {
		var e struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			return fmt.Errorf("daemon: %s: %s", e.Reason, e.Message)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	return json.Unmarshal(body, out)
}
