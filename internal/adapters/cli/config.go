package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	actorQueries "github.com/fame0528/DarkFrame-sub009/internal/application/actor/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage wmd configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (WMD_* prefix, e.g. WMD_DATABASE_PATH)
2. Config file (config.yaml)
3. Default values

User preferences (default actor) are stored in ~/.wmd/config.json

Examples:
  wmd config show
  wmd config set-actor alpha
  wmd config clear-actor`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetActorCommand())
	cmd.AddCommand(newConfigClearActorCommand())
	cmd.AddCommand(newConfigColorCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load config: %v\nUsing default configuration.\n", err)
				cfg = config.Default()
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load user config: %v\n", err)
				userCfg = &config.UserConfig{}
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"default_actor": userCfg.DefaultActor,
					"no_color":      userCfg.NoColor,
					"config":        cfg,
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "WMD Configuration")
			fmt.Fprintln(w, "=================")

			fmt.Fprintln(w, "User Preferences:")
			fmt.Fprintf(w, "  Config file:        %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(w, "  Colored output:     %t\n", !userCfg.NoColor)
			if userCfg.DefaultActor != "" {
				fmt.Fprintf(w, "  Default Actor:      %s\n", userCfg.DefaultActor)
			} else {
				fmt.Fprintf(w, "  Default Actor:      (not set)\n")
			}

			fmt.Fprintln(w, "\nDatabase:")
			fmt.Fprintf(w, "  Type:               %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(w, "  URL:                %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(w, "  Path:               %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(w, "  Host:               %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Fprintf(w, "  Database:           %s\n", cfg.Database.Name)
				fmt.Fprintf(w, "  User:               %s\n", cfg.Database.User)
			}
			fmt.Fprintf(w, "  Query Timeout:      %s\n", cfg.Database.QueryTimeout)

			fmt.Fprintln(w, "\nScheduler:")
			fmt.Fprintf(w, "  Impacts:            every %s\n", cfg.Scheduler.ImpactInterval)
			fmt.Fprintf(w, "  Missions:           every %s\n", cfg.Scheduler.MissionInterval)
			fmt.Fprintf(w, "  Defense:            every %s\n", cfg.Scheduler.DefenseInterval)
			fmt.Fprintf(w, "  Retention:          every %s\n", cfg.Scheduler.RetentionInterval)
			fmt.Fprintf(w, "  Job Timeout:        %s\n", cfg.Scheduler.JobTimeout)
			fmt.Fprintf(w, "  Batch Size:         %d\n", cfg.Scheduler.BatchSize)

			fmt.Fprintln(w, "\nNotifications:")
			fmt.Fprintf(w, "  Buffer:             %d\n", cfg.Notifications.BufferSize)
			fmt.Fprintf(w, "  Rate:               %.0f/s (burst: %d)\n", cfg.Notifications.RatePerSecond, cfg.Notifications.Burst)
			fmt.Fprintf(w, "  Retention:          %s\n", cfg.Notifications.Retention)

			fmt.Fprintln(w, "\nGame:")
			catalogPath := cfg.Game.CatalogPath
			if catalogPath == "" {
				catalogPath = "(embedded default)"
			}
			fmt.Fprintf(w, "  Catalog:            %s\n", catalogPath)
			fmt.Fprintf(w, "  Operative Cap:      %d\n", cfg.Game.OperativeCap)
			fmt.Fprintf(w, "  Min Target Level:   %d\n", cfg.Game.MinTargetLevel)

			fmt.Fprintln(w, "\nDaemon:")
			fmt.Fprintf(w, "  HTTP:               %s\n", cfg.Daemon.HTTPAddr)
			fmt.Fprintf(w, "  gRPC:               %s\n", cfg.Daemon.GRPCAddr)
			fmt.Fprintf(w, "  PID File:           %s\n", cfg.Daemon.PIDFile)

			fmt.Fprintln(w, "\nLogging:")
			fmt.Fprintf(w, "  Level:              %s\n", cfg.Logging.Level)
			fmt.Fprintf(w, "  Format:             %s\n", cfg.Logging.Format)
			fmt.Fprintf(w, "  Output:             %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func newConfigSetActorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-actor <actor-id>",
		Short: "Set the default actor",
		Long: `Set the actor used when --actor is omitted. The actor must already be registered.

Example:
  wmd config set-actor alpha`,
		Args: requireArg("actor-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseActor(args[0])
			if err != nil {
				return err
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			err = withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				_, err := send[*actorQueries.GetActorResponse](ctx, app, &actorQueries.GetActorQuery{ActorID: id})
				return err
			})
			if err != nil {
				return err
			}

			if err := userConfigHandler.SetDefaultActor(id.String()); err != nil {
				return fmt.Errorf("failed to set default actor: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default actor set to %s\n", id)
			fmt.Fprintln(cmd.OutOrStdout(), "Override with --actor.")
			return nil
		},
	}
}

func newConfigClearActorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-actor",
		Short: "Clear the default actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.ClearDefaultActor(); err != nil {
				return fmt.Errorf("failed to clear default actor: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default actor cleared")
			return nil
		},
	}
}

func newConfigColorCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "color <on|off>",
		Short:     "Enable or disable colored output",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetNoColor(args[0] == "off"); err != nil {
				return fmt.Errorf("failed to save color preference: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Colored output %s\n", args[0])
			return nil
		},
	}
}

// maskPassword hides the password component of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	return u.String()
}
