package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fame0528/DarkFrame-sub009/internal/application/espionage/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/application/espionage/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
)

// NewOperativeCommand creates the operative command with subcommands
func NewOperativeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operative",
		Short: "Recruit and list covert operatives",
		Long: `Recruit operatives and inspect their status.

Examples:
  wmd operative recruit --specialization INFILTRATOR
  wmd operative list`,
	}

	cmd.AddCommand(newOperativeRecruitCommand())
	cmd.AddCommand(newOperativeListCommand())

	return cmd
}

func newOperativeRecruitCommand() *cobra.Command {
	var specialization string

	cmd := &cobra.Command{
		Use:   "recruit",
		Short: "Recruit an operative; the cost is debited from resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			if specialization == "" {
				return fmt.Errorf("--specialization flag is required")
			}
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.RecruitOperativeResponse](ctx, app, &commands.RecruitOperativeCommand{
					ActorID:        actorID,
					Specialization: strings.ToUpper(specialization),
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Operative, func() {
					o := resp.Operative
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Recruited %s operative %s (skill %d)\n", o.Specialization, o.ID, o.Skill)
				})
			})
		},
	}

	cmd.Flags().StringVar(&specialization, "specialization", "", "Specialization from the espionage catalog (required)")

	return cmd
}

func newOperativeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the actor's operatives",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*queries.ListOperativesResponse](ctx, app, &queries.ListOperativesQuery{ActorID: actorID})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Operatives, func() {
					if len(resp.Operatives) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No operatives recruited")
						return
					}
					tw := newTable(cmd.OutOrStdout(), "ID", "Specialization", "Skill", "Status", "Mission", "Completed")
					for _, o := range resp.Operatives {
						mission := o.ActiveMissionID
						if mission == "" {
							mission = "-"
						}
						tw.AppendRow([]interface{}{o.ID, o.Specialization, o.Skill, o.Status, mission, o.MissionsCompleted})
					}
					tw.Render()
				})
			})
		},
	}
}
