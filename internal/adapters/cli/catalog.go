package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/catalog"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

// NewCatalogCommand creates the catalog command with subcommands
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and inspect game catalog files",
		Long: `Validate a catalog file (techs, payloads, espionage) before deploying it.

Without a path the configured game.catalog_path is used, falling back to
the catalog compiled into the binary.`,
	}

	cmd.AddCommand(newCatalogValidateCommand())
	cmd.AddCommand(newCatalogPayloadsCommand())
	cmd.AddCommand(newCatalogMissionsCommand())

	return cmd
}

func loadCatalog(args []string) (*catalog.Catalogs, string, error) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		path = cfg.Game.CatalogPath
	}

	c, err := catalog.Load(path)
	if err != nil {
		return nil, path, err
	}
	if path == "" {
		path = "(embedded default)"
	}
	return c, path, nil
}

func newCatalogValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Parse and validate a catalog file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, path, err := loadCatalog(args)
			if err != nil {
				return err
			}
			summary := map[string]interface{}{
				"path":     path,
				"techs":    c.Research.Len(),
				"payloads": len(c.Payloads.All()),
				"missions": len(c.Espionage.Missions()),
			}
			return output(cmd.OutOrStdout(), summary, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Catalog %s is valid\n", path)
				fmt.Fprintf(cmd.OutOrStdout(), "  Techs:    %d\n", summary["techs"])
				fmt.Fprintf(cmd.OutOrStdout(), "  Payloads: %d\n", summary["payloads"])
				fmt.Fprintf(cmd.OutOrStdout(), "  Missions: %d\n", summary["missions"])
			})
		},
	}
}

func newCatalogPayloadsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "payloads [path]",
		Short: "List payload types with their components and range",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadCatalog(args)
			if err != nil {
				return err
			}
			payloads := c.Payloads.All()
			return output(cmd.OutOrStdout(), payloads, func() {
				tw := newTable(cmd.OutOrStdout(), "Type", "Components", "Flight", "Range", "Damage", "Splash", "Cost", "Tech")
				for _, p := range payloads {
					tw.AppendRow([]interface{}{p.Type, strings.Join(p.Components, ", "), p.FlightDuration, p.MaxRange,
						p.Damage, fmt.Sprintf("%.0f%%", p.Splash*100), p.Cost, p.RequiredTech})
				}
				tw.Render()
			})
		},
	}
}

func newCatalogMissionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "missions [path]",
		Short: "List covert mission types",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadCatalog(args)
			if err != nil {
				return err
			}
			missions := c.Espionage.Missions()
			return output(cmd.OutOrStdout(), missions, func() {
				tw := newTable(cmd.OutOrStdout(), "Type", "Duration", "Success", "Detection", "Reward", "Preferred")
				for _, m := range missions {
					preferred := string(m.Preferred)
					if preferred == "" {
						preferred = "-"
					}
					tw.AppendRow([]interface{}{m.Type, m.Duration, fmt.Sprintf("%.0f%%", m.BaseSuccess*100),
						fmt.Sprintf("%.0f%%", m.DetectionBand*100), m.RewardResources, preferred})
				}
				tw.Render()
			})
		},
	}
}
