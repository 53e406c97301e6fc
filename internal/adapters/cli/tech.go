package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	researchCommands "github.com/fame0528/DarkFrame-sub009/internal/application/research/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/application/research/dtos"
	researchQueries "github.com/fame0528/DarkFrame-sub009/internal/application/research/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
)

// NewTechCommand creates the tech command with subcommands
func NewTechCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tech",
		Short: "Browse the tech graph and drive research",
		Long: `Browse the tech catalog and manage the acting actor's research.

Only one tech can be researched at a time. Research points are spent
incrementally until the tech's cost is reached.

Examples:
  wmd tech list
  wmd tech tree
  wmd tech check warhead_design
  wmd tech start warhead_design --multiplier 1.5
  wmd tech spend 200
  wmd tech cancel`,
	}

	cmd.AddCommand(newTechListCommand())
	cmd.AddCommand(newTechTreeCommand())
	cmd.AddCommand(newTechStateCommand())
	cmd.AddCommand(newTechCheckCommand())
	cmd.AddCommand(newTechStartCommand())
	cmd.AddCommand(newTechSpendCommand())
	cmd.AddCommand(newTechCancelCommand())

	return cmd
}

func newTechListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every tech in catalog order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*researchQueries.ListTechsResponse](ctx, app, &researchQueries.ListTechsQuery{})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Techs, func() {
					tw := newTable(cmd.OutOrStdout(), "ID", "Name", "Category", "Cost", "Prerequisites", "Min Level", "Min Group")
					for _, t := range resp.Techs {
						prereqs := "-"
						if len(t.Prerequisites) > 0 {
							prereqs = strings.Join(t.Prerequisites, ", ")
						}
						tw.AppendRow([]interface{}{t.ID, t.Name, t.Category, t.Cost, prereqs, t.MinActorLevel, t.MinGroupLevel})
					}
					tw.Render()
				})
			})
		},
	}
}

func newTechTreeCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render the prerequisite tree with the actor's progress",
		Long: `Render techs as a tree of dependents, rooted at techs without prerequisites.

Markers: [✓] completed, [~] researching, [ ] available, [x] locked.
Without an actor (no --actor and no default) the tree is rendered without progress.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				techs, err := send[*researchQueries.ListTechsResponse](ctx, app, &researchQueries.ListTechsQuery{})
				if err != nil {
					return err
				}

				var state *dtos.ResearchStateDTO
				if actorID, err := resolveActor(); err == nil {
					resp, err := send[*researchQueries.GetResearchStateResponse](ctx, app, &researchQueries.GetResearchStateQuery{ActorID: actorID})
					if err != nil {
						return err
					}
					state = &resp.State
				}

				formatter := NewTreeFormatter(techs.Techs, state, colorsEnabled(noColor))
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTree())
				if state != nil {
					fmt.Fprintln(cmd.OutOrStdout())
					fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTreeSummary())
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")

	return cmd
}

func newTechStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show completed, available and locked techs",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*researchQueries.GetResearchStateResponse](ctx, app, &researchQueries.GetResearchStateQuery{ActorID: actorID})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.State, func() {
					printResearchState(cmd, resp.State)
				})
			})
		},
	}
}

func newTechCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <tech-id>",
		Short: "Check whether research on a tech could start now",
		Args:  requireArg("tech-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*researchQueries.CheckResearchResponse](ctx, app, &researchQueries.CheckResearchQuery{ActorID: actorID, TechID: args[0]})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					if resp.CanStart {
						fmt.Fprintf(cmd.OutOrStdout(), "✓ %s can be started\n", resp.TechID)
						return
					}
					fmt.Fprintf(cmd.OutOrStdout(), "✗ %s cannot be started: %s (%s)\n", resp.TechID, resp.Message, resp.Reason)
				})
			})
		},
	}
}

func newTechStartCommand() *cobra.Command {
	var multiplier float64

	cmd := &cobra.Command{
		Use:   "start <tech-id>",
		Short: "Start researching a tech",
		Args:  requireArg("tech-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*researchCommands.StartResearchResponse](ctx, app, &researchCommands.StartResearchCommand{
					ActorID:    actorID,
					TechID:     args[0],
					Multiplier: multiplier,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.State, func() {
					p := resp.State.InProgress
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Research started on %s (%d points required)\n", p.TechID, p.PointsRequired)
				})
			})
		},
	}

	cmd.Flags().Float64Var(&multiplier, "multiplier", 1, "Cost multiplier applied to the catalog cost")

	return cmd
}

func newTechSpendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spend <amount>",
		Short: "Spend research points on the tech in progress",
		Args:  requireArg("amount"),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*researchCommands.ApplyResearchPointsResponse](ctx, app, &researchCommands.ApplyResearchPointsCommand{
					ActorID: actorID,
					Amount:  amount,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					if resp.Completed {
						fmt.Fprintf(cmd.OutOrStdout(), "✓ Spent %d points, %s completed\n", resp.PointsApplied, resp.TechID)
						return
					}
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Spent %d points on %s, %d remaining\n", resp.PointsApplied, resp.TechID, resp.PointsRemaining)
				})
			})
		},
	}
}

func newTechCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Abandon the research in progress; spent points are not refunded",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*researchCommands.CancelResearchResponse](ctx, app, &researchCommands.CancelResearchCommand{ActorID: actorID})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Cancelled %s (%d points forfeited)\n", resp.TechID, resp.PointsSpent)
				})
			})
		},
	}
}

func printResearchState(cmd *cobra.Command, s dtos.ResearchStateDTO) {
	w := cmd.OutOrStdout()
	list := func(ids []string) string {
		if len(ids) == 0 {
			return "-"
		}
		return strings.Join(ids, ", ")
	}

	fmt.Fprintf(w, "  Actor:       %s\n", s.ActorID)
	fmt.Fprintf(w, "  Completed:   %s\n", list(s.Completed))
	fmt.Fprintf(w, "  Available:   %s\n", list(s.Available))
	fmt.Fprintf(w, "  Locked:      %s\n", list(s.Locked))
	fmt.Fprintf(w, "  Total Spent: %d\n", s.TotalPointsSpent)
	if p := s.InProgress; p != nil {
		fmt.Fprintf(w, "  In Progress: %s (%d/%d, %d remaining)\n", p.TechID, p.PointsSpent, p.PointsRequired, p.PointsRemaining)
	} else {
		fmt.Fprintln(w, "  In Progress: -")
	}
}
