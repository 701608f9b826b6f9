package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/voicemirror/voicemirror/internal/journal"
)

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		journalPath string
		session     string
	)

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect a recorded change journal",
		Long: `Print the change records stored in a journal database, in publish
order. Filter to one session with --session; list sessions with
--sessions.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, cmd, journalPath, session)
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "journal database to read")
	cmd.Flags().StringVar(&session, "session", "", "only show records for this session token")
	return cmd
}

func runTrace(opts *RootOptions, cmd *cobra.Command, journalPath, session string) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if journalPath == "" {
		cfg, err := LoadConfig()
		if err != nil {
			return WrapExitError(ExitCommandError, "load config", err)
		}
		journalPath = cfg.JournalPath
	}
	if journalPath == "" {
		return NewExitError(ExitCommandError, "no journal given: pass --journal or set VOICEMIRROR_JOURNAL")
	}
	if _, err := os.Stat(journalPath); err != nil {
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	entries, err := j.Entries(cmd.Context(), session)
	if err != nil {
		return WrapExitError(ExitCommandError, "read journal", err)
	}

	if opts.Format == "json" {
		return f.JSON(entries)
	}
	for _, e := range entries {
		old := e.OldValue
		if old == "" {
			old = "<none>"
		}
		f.Printf("%d %s %s %s %d %s: %s -> %s\n",
			e.Seq, e.Session, e.Reason, e.Kind, e.EntityID, e.Property, old, e.NewValue)
	}
	return nil
}
