package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/logging"
)

// flushTimeout bounds how long a command waits for queued notifications on exit
const flushTimeout = 5 * time.Second

// withApp loads configuration, wires the core, runs fn and flushes pending
// notifications before returning
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var logger common.ContainerLogger
	if verbose {
		logger = logging.NewWithWriter(cmd.ErrOrStderr(), "DEBUG", "text")
	}

	app, err := bootstrap.Build(cfg, bootstrap.Options{Logger: logger})
	if err != nil {
		return err
	}

	ctx := app.Context(cmd.Context())
	app.Start(ctx)

	runErr := fn(ctx, app)

	closeCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := app.Close(closeCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// send dispatches a request through the mediator and asserts the response type
func send[T any](ctx context.Context, app *bootstrap.App, request common.Request) (T, error) {
	var zero T
	resp, err := app.Mediator.Send(ctx, request)
	if err != nil {
		return zero, err
	}
	typed, ok := resp.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected response type %T", resp)
	}
	return typed, nil
}

// resolveActor returns the acting actor: --actor flag first, then the saved default
func resolveActor() (shared.ActorID, error) {
	if actorFlag != "" {
		return parseActor(actorFlag)
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return shared.ActorID{}, fmt.Errorf("no actor specified and failed to load user config: %w", err)
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return shared.ActorID{}, fmt.Errorf("no actor specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultActor != "" {
		return parseActor(userCfg.DefaultActor)
	}

	return shared.ActorID{}, fmt.Errorf("no actor specified: use --actor, or set a default with 'wmd config set-actor'")
}

// colorsEnabled honours --no-color, the NO_COLOR convention and the saved preference
func colorsEnabled(noColorFlag bool) bool {
	if noColorFlag || os.Getenv("NO_COLOR") != "" {
		return false
	}
	h, err := config.NewUserConfigHandler()
	if err != nil {
		return true
	}
	prefs, err := h.Load()
	return err != nil || !prefs.NoColor
}

func parseActor(raw string) (shared.ActorID, error) {
	id, err := shared.NewActorID(raw)
	if err != nil {
		return shared.ActorID{}, fmt.Errorf("invalid actor id %q: %w", raw, err)
	}
	return id, nil
}

// output prints v as JSON when --json is set, otherwise calls render
func output(w io.Writer, v interface{}, render func()) error {
	if jsonOutput {
		return printJSON(w, v)
	}
	render()
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...interface{}) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row(header))
	return tw
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatUntil(t *time.Time, clock shared.Clock) string {
	if t == nil {
		return "-"
	}
	if d := shared.Until(clock, *t); d > 0 {
		return fmt.Sprintf("%s (in %s)", formatTime(t), d.Round(time.Second))
	}
	return formatTime(t)
}

// formatError renders domain errors as "REASON: message (key=value ...)"
func formatError(err error) string {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return "Error: " + err.Error()
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(domainErr.Error())
	if len(domainErr.Details) > 0 {
		keys := make([]string, 0, len(domainErr.Details))
		for k := range domainErr.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, domainErr.Details[k]))
		}
		b.WriteString(" (" + strings.Join(parts, " ") + ")")
	}
	return b.String()
}

// requireArg is a cobra.PositionalArgs that names the missing argument
func requireArg(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one <%s> argument", name)
		}
		return nil
	}
}
