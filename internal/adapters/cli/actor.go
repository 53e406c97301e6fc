package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	actorCommands "github.com/fame0528/DarkFrame-sub009/internal/application/actor/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/application/actor/dtos"
	actorQueries "github.com/fame0528/DarkFrame-sub009/internal/application/actor/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// NewActorCommand creates the actor command with subcommands
func NewActorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actor",
		Short: "Manage actors, their profile and balances",
		Long: `Register actors and inspect their profile and ledger.

Examples:
  wmd actor register --id alpha --level 5 --group red --research-points 500 --resources 2000
  wmd actor show
  wmd actor update --protect-for 24h
  wmd actor grant --currency RESOURCES --amount 1000
  wmd actor ledger --currency RESEARCH_POINTS`,
	}

	cmd.AddCommand(newActorRegisterCommand())
	cmd.AddCommand(newActorShowCommand())
	cmd.AddCommand(newActorUpdateCommand())
	cmd.AddCommand(newActorGrantCommand())
	cmd.AddCommand(newActorLedgerCommand())

	return cmd
}

func newActorRegisterCommand() *cobra.Command {
	var c actorCommands.RegisterActorCommand

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new actor with opening balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.ActorID == "" {
				return fmt.Errorf("--id flag is required")
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*actorCommands.RegisterActorResponse](ctx, app, &c)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Actor, func() {
					fmt.Fprintln(cmd.OutOrStdout(), "✓ Actor registered")
					printActor(cmd, resp.Actor, app.Clock)
					fmt.Fprintf(cmd.OutOrStdout(), "\nSet as default with: wmd config set-actor %s\n", resp.Actor.ID)
				})
			})
		},
	}

	cmd.Flags().StringVar(&c.ActorID, "id", "", "Actor id (required)")
	cmd.Flags().StringVar(&c.DisplayName, "name", "", "Display name")
	cmd.Flags().IntVar(&c.Level, "level", 1, "Actor level")
	cmd.Flags().StringVar(&c.GroupID, "group", "", "Group (clan) id")
	cmd.Flags().IntVar(&c.GroupLevel, "group-level", 0, "Group level")
	cmd.Flags().Float64Var(&c.Position.X, "x", 0, "Map position X")
	cmd.Flags().Float64Var(&c.Position.Y, "y", 0, "Map position Y")
	cmd.Flags().IntVar(&c.ResearchPoints, "research-points", 0, "Opening research point balance")
	cmd.Flags().IntVar(&c.Resources, "resources", 0, "Opening resource balance")

	return cmd
}

func newActorShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [actor-id]",
		Short: "Show an actor's profile and balances",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				actorFlag = args[0]
			}
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*actorQueries.GetActorResponse](ctx, app, &actorQueries.GetActorQuery{ActorID: actorID})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Actor, func() {
					printActor(cmd, resp.Actor, app.Clock)
				})
			})
		},
	}
}

func newActorUpdateCommand() *cobra.Command {
	var (
		name         string
		level        int
		group        string
		groupLevel   int
		protectFor   time.Duration
		unprotect    bool
		x, y         float64
		hardening    int
		counterIntel int
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields; only flags that are set change",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}

			c := &actorCommands.UpdateActorProfileCommand{ActorID: actorID, ClearProtection: unprotect}
			flags := cmd.Flags()
			if flags.Changed("name") {
				c.DisplayName = &name
			}
			if flags.Changed("level") {
				c.Level = &level
			}
			if flags.Changed("group") {
				c.GroupID = &group
			}
			if flags.Changed("group-level") {
				c.GroupLevel = &groupLevel
			}
			if flags.Changed("protect-for") {
				c.ProtectedFor = &protectFor
			}
			if flags.Changed("x") || flags.Changed("y") {
				c.Position = &actor.Position{X: x, Y: y}
			}
			if flags.Changed("hardening") {
				c.Hardening = &hardening
			}
			if flags.Changed("counter-intel") {
				c.CounterIntel = &counterIntel
			}

			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*actorCommands.UpdateActorProfileResponse](ctx, app, c)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Actor, func() {
					fmt.Fprintln(cmd.OutOrStdout(), "✓ Profile updated")
					printActor(cmd, resp.Actor, app.Clock)
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().IntVar(&level, "level", 0, "Actor level")
	cmd.Flags().StringVar(&group, "group", "", "Group id (empty string leaves the group)")
	cmd.Flags().IntVar(&groupLevel, "group-level", 0, "Group level")
	cmd.Flags().DurationVar(&protectFor, "protect-for", 0, "Grant newbie protection for this long")
	cmd.Flags().BoolVar(&unprotect, "unprotect", false, "Remove protection")
	cmd.Flags().Float64Var(&x, "x", 0, "Map position X")
	cmd.Flags().Float64Var(&y, "y", 0, "Map position Y")
	cmd.Flags().IntVar(&hardening, "hardening", 0, "Hardening against sabotage")
	cmd.Flags().IntVar(&counterIntel, "counter-intel", 0, "Counter-intelligence rating")

	return cmd
}

func newActorGrantCommand() *cobra.Command {
	var (
		currency  string
		amount    int
		reference string
	)

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Credit research points or resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*actorCommands.GrantResponse](ctx, app, &actorCommands.GrantCommand{
					ActorID:   actorID,
					Currency:  currency,
					Amount:    amount,
					Reference: reference,
				})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Entry, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Credited %d %s (balance %d)\n",
						resp.Entry.Amount, resp.Entry.Currency, resp.Entry.BalanceAfter)
				})
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "RESOURCES", "RESEARCH_POINTS or RESOURCES")
	cmd.Flags().IntVar(&amount, "amount", 0, "Amount to credit (required, > 0)")
	cmd.Flags().StringVar(&reference, "reference", "cli", "Free-form reference stored on the entry")

	return cmd
}

func newActorLedgerCommand() *cobra.Command {
	var (
		currency string
		since    time.Duration
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List ledger entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				q := &actorQueries.GetLedgerQuery{ActorID: actorID, Currency: currency, Limit: limit, Offset: offset}
				if since > 0 {
					from := app.Clock.Now().Add(-since)
					q.Since = &from
				}
				resp, err := send[*actorQueries.GetLedgerResponse](ctx, app, q)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Entries, func() {
					if len(resp.Entries) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No ledger entries")
						return
					}
					tw := newTable(cmd.OutOrStdout(), "Time", "Currency", "Type", "Amount", "Balance", "Reference")
					for _, e := range resp.Entries {
						created := e.CreatedAt
						tw.AppendRow([]interface{}{formatTime(&created), e.Currency, e.EntryType, e.Amount, e.BalanceAfter, e.Reference})
					}
					tw.Render()
				})
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "Filter by RESEARCH_POINTS or RESOURCES")
	cmd.Flags().DurationVar(&since, "since", 0, "Only entries newer than this (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")

	return cmd
}

func printActor(cmd *cobra.Command, a dtos.ActorDTO, clock shared.Clock) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "  ID:              %s\n", a.ID)
	if a.DisplayName != "" {
		fmt.Fprintf(w, "  Name:            %s\n", a.DisplayName)
	}
	fmt.Fprintf(w, "  Level:           %d\n", a.Level)
	if a.GroupID != "" {
		fmt.Fprintf(w, "  Group:           %s (level %d)\n", a.GroupID, a.GroupLevel)
	}
	fmt.Fprintf(w, "  Research Points: %d\n", a.ResearchPoints)
	fmt.Fprintf(w, "  Resources:       %d\n", a.Resources)
	fmt.Fprintf(w, "  Position:        (%.1f, %.1f)\n", a.X, a.Y)
	fmt.Fprintf(w, "  Hardening:       %d\n", a.Hardening)
	fmt.Fprintf(w, "  Counter-Intel:   %d\n", a.CounterIntel)
	fmt.Fprintf(w, "  Protected Until: %s\n", formatUntil(a.ProtectedUntil, clock))
}
