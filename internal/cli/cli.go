// Package cli implements debugctl, a terminal view of a running server's
// captured logs and requests.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/kx0101/devoverlay/internal/debugclient"
	"github.com/kx0101/devoverlay/internal/models"
	"github.com/kx0101/devoverlay/internal/output"
	"github.com/kx0101/devoverlay/internal/report"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	ExitOK ExitCode = iota
	ExitInvalid
	ExitRuntime
)

type options struct {
	url     string
	token   string
	json    bool
	noColor bool
}

func (o *options) client() (*debugclient.Client, error) {
	return debugclient.NewClient(o.url, o.token)
}

func (o *options) printer(cmd *cobra.Command) *output.Printer {
	return output.New(cmd.OutOrStdout(), o.json)
}

// NewRootCommand builds debugctl with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "debugctl",
		Short: "Inspect the logs and requests captured by a running server",
		Long: `debugctl reads the debug API of a running server: the last log lines written
through its default logger and the outcome of the requests it sent.

The server URL and debug token default to DEVOVERLAY_URL and DEBUG_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &invalidError{err}
	})

	root.PersistentFlags().StringVar(&opts.url, "url", getEnvOrDefault("DEVOVERLAY_URL", "http://localhost:3000"), "Server base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("DEBUG_TOKEN"), "Debug API token")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Output results in JSON format")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(
		newLogsCommand(opts),
		newRequestsCommand(opts),
		newSummaryCommand(opts),
		newClearCommand(opts),
		newWatchCommand(opts),
		newReportCommand(opts),
	)

	return root
}

func newLogsCommand(opts *options) *cobra.Command {
	var level string
	var errorsOnly bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print captured log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errorsOnly {
				level = string(models.LevelError)
			}
			if level != "" && !models.Level(level).Valid() {
				return &invalidError{fmt.Errorf("invalid level %q: want info, warn, error or debug", level)}
			}

			client, err := opts.client()
			if err != nil {
				return &invalidError{err}
			}

			var entries []models.LogEntry
			if errorsOnly {
				entries, err = client.ErrorLogs(cmd.Context())
			} else {
				entries, err = client.Logs(cmd.Context(), models.Level(level))
			}
			if err != nil {
				return err
			}

			return opts.printer(cmd).Logs(entries)
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Only show entries of this level (info, warn, error, debug)")
	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "Only show error entries")
	return cmd
}

func newRequestsCommand(opts *options) *cobra.Command {
	var failedOnly, successfulOnly bool

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Print captured outgoing requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if failedOnly && successfulOnly {
				return &invalidError{errors.New("--failed and --successful are mutually exclusive")}
			}

			client, err := opts.client()
			if err != nil {
				return &invalidError{err}
			}

			p := opts.printer(cmd)
			ctx := cmd.Context()

			if !successfulOnly {
				failed, err := client.Failed(ctx)
				if err != nil {
					return err
				}
				if err := p.Requests("Failed Requests", failed); err != nil {
					return err
				}
			}

			if !failedOnly {
				successful, err := client.Successful(ctx)
				if err != nil {
					return err
				}
				if err := p.Requests("Successful Requests", successful); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only show failed requests")
	cmd.Flags().BoolVar(&successfulOnly, "successful", false, "Only show successful requests")
	return cmd
}

func newSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print buffer sizes and request latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return &invalidError{err}
			}

			summary, err := client.Summary(cmd.Context())
			if err != nil {
				return err
			}

			return opts.printer(cmd).Summary(*summary)
		},
	}
}

func newClearCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty every captured buffer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return &invalidError{err}
			}

			if err := client.Clear(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		},
	}
}

func newWatchCommand(opts *options) *cobra.Command {
	var interval time.Duration
	var times int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the summary and newest logs until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return &invalidError{errors.New("--interval must be positive")}
			}

			client, err := opts.client()
			if err != nil {
				return &invalidError{err}
			}

			return watch(cmd.Context(), client, opts.printer(cmd), interval, times)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Polling interval")
	cmd.Flags().IntVar(&times, "times", 0, "Stop after this many polls (0 = until interrupted)")
	return cmd
}

func newReportCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an HTML snapshot of every buffer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return &invalidError{errors.New("--out is required")}
			}

			client, err := opts.client()
			if err != nil {
				return &invalidError{err}
			}

			snap, err := snapshot(cmd.Context(), client, opts.url)
			if err != nil {
				return err
			}

			if err := report.GenerateHTML(snap, out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "debug-report.html", "Output HTML file")
	return cmd
}

func snapshot(ctx context.Context, client *debugclient.Client, source string) (report.Snapshot, error) {
	snap := report.Snapshot{Source: source}

	var err error
	if snap.Logs, err = client.Logs(ctx, ""); err != nil {
		return snap, err
	}
	if snap.Successful, err = client.Successful(ctx); err != nil {
		return snap, err
	}
	if snap.Failed, err = client.Failed(ctx); err != nil {
		return snap, err
	}

	summary, err := client.Summary(ctx)
	if err != nil {
		return snap, err
	}
	snap.Summary = *summary

	return snap, nil
}

const watchLogLimit = 10

func watch(ctx context.Context, client *debugclient.Client, p *output.Printer, interval time.Duration, times int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		summary, err := client.Summary(ctx)
		if err != nil {
			return err
		}
		logs, err := client.Logs(ctx, "")
		if err != nil {
			return err
		}
		if len(logs) > watchLogLimit {
			logs = logs[:watchLogLimit]
		}

		p.Heading(fmt.Sprintf("---- %s ----", time.Now().Format(time.TimeOnly)))
		if err := p.Summary(*summary); err != nil {
			return err
		}
		if err := p.Logs(logs); err != nil {
			return err
		}

		if times > 0 && n >= times {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

type invalidError struct{ err error }

func (e *invalidError) Error() string { return e.err.Error() }
func (e *invalidError) Unwrap() error { return e.err }

// Execute runs debugctl with args and reports how it went.
func Execute(args []string, stdout, stderr io.Writer) ExitCode {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		var invalid *invalidError
		if errors.As(err, &invalid) {
			return ExitInvalid
		}
		return ExitRuntime
	}

	return ExitOK
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
