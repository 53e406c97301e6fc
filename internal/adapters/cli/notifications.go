package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fame0528/DarkFrame-sub009/internal/application/notification/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/application/notification/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
)

// NewNotificationsCommand creates the notifications command with subcommands
func NewNotificationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Read and purge stored notifications",
	}

	cmd.AddCommand(newNotificationsListCommand())
	cmd.AddCommand(newNotificationsPurgeCommand())

	return cmd
}

func newNotificationsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications addressed to the actor, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := resolveActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*queries.ListNotificationsResponse](ctx, app, &queries.ListNotificationsQuery{ActorID: actorID, Limit: limit})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp.Events, func() {
					if len(resp.Events) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No notifications")
						return
					}
					tw := newTable(cmd.OutOrStdout(), "Time", "Type", "Priority", "Scope", "Details")
					for _, e := range resp.Events {
						at := e.OccurredAt
						tw.AppendRow([]interface{}{formatTime(&at), e.Type, e.Priority, e.Scope, formatPayload(e.Payload)})
					}
					tw.Render()
				})
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum notifications")

	return cmd
}

func newNotificationsPurgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete notifications older than the configured retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				resp, err := send[*commands.PurgeNotificationsResponse](ctx, app, &commands.PurgeNotificationsCommand{})
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), resp, func() {
					cutoff := resp.Cutoff
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Purged %d notification(s) older than %s\n", resp.Deleted, formatTime(&cutoff))
				})
			})
		},
	}
}

func formatPayload(payload map[string]interface{}) string {
	if len(payload) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}
	return strings.Join(parts, " ")
}
