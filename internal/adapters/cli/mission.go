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

// NewMissionCommand creates the mission command with subcommands
func NewMissionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Run covert missions, sabotage and counter-intelligence",
		Long: `Send operatives on covert missions against other actors.

Missions resolve on their own once due (the daemon's mission_completion job),
or can be resolved by hand with 'complete'.

Examples:
  wmd mission start --operative <id> --type RECON --target bravo
  wmd mission complete <mission-id>
  wmd mission sabotage --operative <id> --target bravo
  wmd mission sweep --operative <id>`,
	}

	cmd.AddCommand(newMissionStartCommand())
	cmd.AddCommand(newMissionCompleteCommand())
	cmd.AddCommand(newMissionListCommand())
	cmd.AddCommand(newMissionSabotageCommand())
	cmd.AddCommand(newMissionSweepCommand())

	return cmd
}

func newMissionStartCommand() *cobra.Command {
	var (
		operativeID string
		missionType string
		target      string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Send an idle operative on a mission",
		RunE: func(cmd *cobra.Command, args []string) error {
			if operativeID == "" || missionType == "" || target == "" {
				return fmt.Errorf("--operative, --type and --target flags are required")
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
				resp, err := send[*commands.StartMissionResponse](ctx, app, &commands.StartMissionCommand{
					ActorID:     actorID,
					OperativeID: operativeID,
					MissionType: strings.ToUpper(missionType),
					TargetID:    targetID,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Mission, func() {
					m := resp.Mission
					completes := m.CompletesAt
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Mission %s (%s) against %s started, completes %s\n",
						m.ID, m.MissionType, m.TargetID, formatUntil(&completes, app.Clock))
				})
			})
		},
	}

	cmd.Flags().StringVar(&operativeID, "operative", "", "Operative id (required)")
	cmd.Flags().StringVar(&missionType, "type", "", "Mission type from the espionage catalog (required)")
	cmd.Flags().StringVar(&target, "target", "", "Target actor id (required)")

	return cmd
}

func newMissionCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <mission-id>",
		Short: "Resolve a mission whose duration has elapsed",
		Args:  requireArg("mission-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.CompleteMissionResponse](ctx, app, &commands.CompleteMissionCommand{
					ActorID:   actorID,
					MissionID: args[0],
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Resolution, func() {
					r := resp.Resolution
					fmt.Fprintf(cmd.OutOrStdout(), "Mission %s: %s (chance %.0f%%, roll %.2f)\n",
						r.Mission.ID, r.Outcome, r.SuccessChance*100, r.Roll)
					if r.RewardResources > 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "  Reward:      %d resources\n", r.RewardResources)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  Skill after: %d\n", r.SkillAfter)
				})
			})
		},
	}
}

func newMissionListCommand() *cobra.Command {
	var operativeID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the actor's missions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*queries.ListMissionsResponse](ctx, app, &queries.ListMissionsQuery{
					ActorID:     actorID,
					OperativeID: operativeID,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Missions, func() {
					if len(resp.Missions) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No missions found")
						return
					}
					tw := newTable(cmd.OutOrStdout(), "ID", "Type", "Operative", "Target", "Status", "Outcome", "Completes")
					for _, m := range resp.Missions {
						outcome := m.Outcome
						if outcome == "" {
							outcome = "-"
						}
						completes := m.CompletesAt
						tw.AppendRow([]interface{}{m.ID, m.MissionType, m.OperativeID, m.TargetID, m.Status, outcome, formatUntil(&completes, app.Clock)})
					}
					tw.Render()
				})
			})
		},
	}

	cmd.Flags().StringVar(&operativeID, "operative", "", "Only missions run by this operative")

	return cmd
}

func newMissionSabotageCommand() *cobra.Command {
	var (
		operativeID string
		target      string
	)

	cmd := &cobra.Command{
		Use:   "sabotage",
		Short: "Have a saboteur damage the target's defense units",
		RunE: func(cmd *cobra.Command, args []string) error {
			if operativeID == "" || target == "" {
				return fmt.Errorf("--operative and --target flags are required")
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
				resp, err := send[*commands.ExecuteSabotageResponse](ctx, app, &commands.ExecuteSabotageCommand{
					ActorID:     actorID,
					OperativeID: operativeID,
					TargetID:    targetID,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Sabotage dealt %d damage to %d unit(s)\n", resp.Damage, resp.UnitsHit)
				})
			})
		},
	}

	cmd.Flags().StringVar(&operativeID, "operative", "", "Operative id (required)")
	cmd.Flags().StringVar(&target, "target", "", "Target actor id (required)")

	return cmd
}

func newMissionSweepCommand() *cobra.Command {
	var operativeID string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a counter-intelligence sweep for hostile missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if operativeID == "" {
				return fmt.Errorf("--operative flag is required")
			}
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.CounterIntelSweepResponse](ctx, app, &commands.CounterIntelSweepCommand{
					ActorID:     actorID,
					OperativeID: operativeID,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d hostile mission(s), revealed %d\n", resp.Scanned, len(resp.Revealed))
					if len(resp.Revealed) == 0 {
						return
					}
					tw := newTable(cmd.OutOrStdout(), "Mission", "Type", "Origin", "Operative")
					for _, r := range resp.Revealed {
						tw.AppendRow([]interface{}{r.MissionID, r.MissionType, r.Origin, r.OperativeID})
					}
					tw.Render()
				})
			})
		},
	}

	cmd.Flags().StringVar(&operativeID, "operative", "", "Operative id (required)")

	return cmd
}
