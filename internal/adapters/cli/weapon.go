package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// NewWeaponCommand creates the weapon command with subcommands
func NewWeaponCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weapon",
		Short: "Assemble, launch and dismantle weapons",
		Long: `Manage the acting actor's weapons.

A weapon is created ASSEMBLING, becomes READY once every component is
installed, and flies until its impact time after launch.

Examples:
  wmd weapon create --payload TACTICAL_MISSILE
  wmd weapon install <weapon-id> --component warhead
  wmd weapon launch <weapon-id> --target bravo
  wmd weapon list --status READY`,
	}

	cmd.AddCommand(newWeaponCreateCommand())
	cmd.AddCommand(newWeaponInstallCommand())
	cmd.AddCommand(newWeaponLaunchCommand())
	cmd.AddCommand(newWeaponDismantleCommand())
	cmd.AddCommand(newWeaponListCommand())
	cmd.AddCommand(newWeaponShowCommand())

	return cmd
}

func newWeaponCreateCommand() *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start assembling a weapon; reserves the payload cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			if payload == "" {
				return fmt.Errorf("--payload flag is required")
			}
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.CreateWeaponResponse](ctx, app, &commands.CreateWeaponCommand{
					ActorID:     actorID,
					PayloadType: strings.ToUpper(payload),
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Weapon, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Weapon %s created (%d resources reserved)\n", resp.Weapon.ID, resp.Weapon.ReservedResources)
					printWeapon(cmd, resp.Weapon, app.Clock)
				})
			})
		},
	}

	cmd.Flags().StringVar(&payload, "payload", "", "Payload type from the catalog (required)")

	return cmd
}

func newWeaponInstallCommand() *cobra.Command {
	var component string

	cmd := &cobra.Command{
		Use:   "install <weapon-id>",
		Short: "Install one component on an assembling weapon",
		Args:  requireArg("weapon-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if component == "" {
				return fmt.Errorf("--component flag is required")
			}
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.InstallComponentResponse](ctx, app, &commands.InstallComponentCommand{
					ActorID:     actorID,
					WeaponID:    args[0],
					ComponentID: component,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Installed %s\n", component)
					if resp.BecameReady {
						fmt.Fprintln(cmd.OutOrStdout(), "✓ Weapon is READY for launch")
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&component, "component", "", "Component id (required)")

	return cmd
}

func newWeaponLaunchCommand() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "launch <weapon-id>",
		Short: "Launch a READY weapon at a target",
		Args:  requireArg("weapon-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				return fmt.Errorf("--target flag is required")
			}
			targetID, err := parseActor(target)
			if err != nil {
				return err
			}
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.LaunchWeaponResponse](ctx, app, &commands.LaunchWeaponCommand{
					ActorID:  actorID,
					WeaponID: args[0],
					TargetID: targetID,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Weapon, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Launched at %s, impact %s\n",
						resp.Weapon.TargetID, formatUntil(resp.Weapon.ImpactAt, app.Clock))
				})
			})
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target actor id (required)")

	return cmd
}

func newWeaponDismantleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dismantle <weapon-id>",
		Short: "Dismantle a weapon that has not launched and release its reservation",
		Args:  requireArg("weapon-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.DismantleWeaponResponse](ctx, app, &commands.DismantleWeaponCommand{
					ActorID:  actorID,
					WeaponID: args[0],
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Weapon %s dismantled, %d resources released\n", resp.Weapon.ID, resp.Released)
				})
			})
		},
	}
}

func newWeaponListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the actor's weapons",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*queries.ListWeaponsResponse](ctx, app, &queries.ListWeaponsQuery{
					ActorID: actorID,
					Status:  strings.ToUpper(status),
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Weapons, func() {
					if len(resp.Weapons) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No weapons found")
						return
					}
					tw := newTable(cmd.OutOrStdout(), "ID", "Payload", "Status", "Components", "Target", "Impact")
					for _, w := range resp.Weapons {
						target := w.TargetID
						if target == "" {
							target = "-"
						}
						tw.AppendRow([]interface{}{w.ID, w.PayloadType, w.Status, componentProgress(w.Components), target, formatUntil(w.ImpactAt, app.Clock)})
					}
					tw.Render()
				})
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (ASSEMBLING, READY, LAUNCHED, IMPACTED, DISMANTLED)")

	return cmd
}

func newWeaponShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <weapon-id>",
		Short: "Show one weapon",
		Args:  requireArg("weapon-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*queries.GetWeaponResponse](ctx, app, &queries.GetWeaponQuery{WeaponID: args[0]})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Weapon, func() {
					printWeapon(cmd, resp.Weapon, app.Clock)
				})
			})
		},
	}
}

func componentProgress(components []dtos.ComponentDTO) string {
	installed := 0
	for _, c := range components {
		if c.Installed {
			installed++
		}
	}
	return fmt.Sprintf("%d/%d", installed, len(components))
}

func printWeapon(cmd *cobra.Command, w dtos.WeaponDTO, clock shared.Clock) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  ID:         %s\n", w.ID)
	fmt.Fprintf(out, "  Owner:      %s\n", w.Owner)
	fmt.Fprintf(out, "  Payload:    %s\n", w.PayloadType)
	fmt.Fprintf(out, "  Status:     %s\n", w.Status)
	fmt.Fprintf(out, "  Reserved:   %d\n", w.ReservedResources)
	fmt.Fprintf(out, "  Components: %s\n", componentProgress(w.Components))
	for _, c := range w.Components {
		mark := " "
		if c.Installed {
			mark = "✓"
		}
		fmt.Fprintf(out, "    [%s] %s\n", mark, c.ID)
	}
	if w.TargetID != "" {
		fmt.Fprintf(out, "  Target:     %s\n", w.TargetID)
		fmt.Fprintf(out, "  Launched:   %s\n", formatTime(w.LaunchedAt))
		fmt.Fprintf(out, "  Impact:     %s\n", formatUntil(w.ImpactAt, clock))
	}
	if w.ImpactedAt != nil {
		fmt.Fprintf(out, "  Impacted:   %s\n", formatTime(w.ImpactedAt))
	}
	if w.DismantledAt != nil {
		fmt.Fprintf(out, "  Dismantled: %s\n", formatTime(w.DismantledAt))
	}
}
