package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	actorFlag  string
	jsonOutput bool
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wmd",
		Short: "WMD CLI - research, weapons, covert missions and defense",
		Long: `wmd drives the WMD game core directly against the configured database.
Commands run in-process; the wmd-daemon only adds the background jobs and
the health/metrics/websocket surface.

Examples:
  wmd actor register --id alpha --level 5 --research-points 500 --resources 2000
  wmd config set-actor alpha
  wmd tech check warhead_design
  wmd tech start warhead_design
  wmd weapon create --payload TACTICAL_MISSILE
  wmd weapon launch <weapon-id> --target bravo
  wmd mission start --operative <id> --type RECON --target bravo
  wmd scheduler run weapon_impacts`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (default: search ., ./configs, /etc/wmd)")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "actor", "",
		"Acting actor id (default: the one saved with 'wmd config set-actor')")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log handler activity to stderr")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewActorCommand())
	rootCmd.AddCommand(NewTechCommand())
	rootCmd.AddCommand(NewWeaponCommand())
	rootCmd.AddCommand(NewOperativeCommand())
	rootCmd.AddCommand(NewMissionCommand())
	rootCmd.AddCommand(NewDefenseCommand())
	rootCmd.AddCommand(NewSchedulerCommand())
	rootCmd.AddCommand(NewNotificationsCommand())
	rootCmd.AddCommand(NewCatalogCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}
