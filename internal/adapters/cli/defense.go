package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/defense/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/application/defense/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// NewDefenseCommand creates the defense command with subcommands
func NewDefenseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defense",
		Short: "Deploy, operate and repair defense units",
		Long: `Manage the acting actor's defense units.

Active units intercept part of incoming impact damage. A repair takes time
proportional to the missing health and is followed by a cooldown.

Examples:
  wmd defense deploy
  wmd defense activate <unit-id>
  wmd defense repair <unit-id>
  wmd defense list`,
	}

	cmd.AddCommand(newDefenseDeployCommand())
	cmd.AddCommand(newDefenseStateCommand("activate", "Put a unit on watch", func(actorID shared.ActorID, unitID string) common.Request {
		return &commands.ActivateUnitCommand{ActorID: actorID, UnitID: unitID}
	}))
	cmd.AddCommand(newDefenseStateCommand("stand-down", "Take an active unit off watch", func(actorID shared.ActorID, unitID string) common.Request {
		return &commands.StandDownUnitCommand{ActorID: actorID, UnitID: unitID}
	}))
	cmd.AddCommand(newDefenseRepairCommand())
	cmd.AddCommand(newDefenseListCommand())

	return cmd
}

func newDefenseDeployCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a new defense unit at full health",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.UnitResponse](ctx, app, &commands.DeployUnitCommand{ActorID: actorID})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Unit, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Unit %s deployed (%s)\n", resp.Unit.ID, resp.Unit.Status)
				})
			})
		},
	}
}

func newDefenseStateCommand(use, short string, build func(shared.ActorID, string) common.Request) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <unit-id>",
		Short: short,
		Args:  requireArg("unit-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.UnitResponse](ctx, app, build(actorID, args[0]))
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Unit, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Unit %s is now %s\n", resp.Unit.ID, resp.Unit.Status)
				})
			})
		},
	}
}

func newDefenseRepairCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repair <unit-id>",
		Short: "Start repairing a damaged unit; the cost is debited up front",
		Args:  requireArg("unit-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.StartRepairResponse](ctx, app, &commands.StartRepairCommand{ActorID: actorID, UnitID: args[0]})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Repair started for %d resources, completes %s\n",
						resp.Cost, formatUntil(resp.Unit.RepairCompletesAt, app.Clock))
				})
			})
		},
	}
}

func newDefenseListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the actor's defense units",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*queries.ListUnitsResponse](ctx, app, &queries.ListUnitsQuery{ActorID: actorID})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Units, func() {
					if len(resp.Units) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No defense units deployed")
						return
					}
					tw := newTable(cmd.OutOrStdout(), "ID", "Health", "Status", "Repair Done", "Cooldown Until")
					for _, u := range resp.Units {
						tw.AppendRow([]interface{}{u.ID, u.Health, u.Status, formatUntil(u.RepairCompletesAt, app.Clock), formatUntil(u.CooldownUntil, app.Clock)})
					}
					tw.Render()
				})
			})
		},
	}
}
