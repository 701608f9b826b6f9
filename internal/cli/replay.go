package cli

import (
	"github.com/spf13/cobra"

	"github.com/voicemirror/voicemirror/internal/engine"
	"github.com/voicemirror/voicemirror/internal/harness"
	"github.com/voicemirror/voicemirror/internal/journal"
	"github.com/voicemirror/voicemirror/internal/snapshot"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	var journalPath string

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a scenario through the engine",
		Long: `Replay a YAML scenario against a fake host and print every published
change set. With --journal (or VOICEMIRROR_JOURNAL), the change sets are
also recorded to a journal database for later inspection with trace.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, cmd, args[0], journalPath)
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "journal database to record change sets to")
	return cmd
}

func runReplay(opts *RootOptions, cmd *cobra.Command, scenarioPath, journalPath string) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if journalPath == "" {
		cfg, err := LoadConfig()
		if err != nil {
			return WrapExitError(ExitCommandError, "load config", err)
		}
		journalPath = cfg.JournalPath
	}

	scn, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	res, err := harness.Run(scn)
	if err != nil {
		return WrapExitError(ExitFailure, "run scenario", err)
	}

	if journalPath != "" {
		if err := recordToJournal(cmd, journalPath, res.Sets); err != nil {
			return WrapExitError(ExitCommandError, "record journal", err)
		}
	}

	if opts.Format == "json" {
		return f.JSON(replayReport(res))
	}
	_, err = f.Writer.Write(res.RenderText())
	return err
}

func recordToJournal(cmd *cobra.Command, path string, sets []engine.ChangeSet) error {
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	for _, cs := range sets {
		if err := j.Record(ctx, cs); err != nil {
			return err
		}
	}
	return nil
}

// replaySet is the JSON projection of one published change set.
type replaySet struct {
	Session  string         `json:"session"`
	Kind     string         `json:"kind"`
	EntityID uint64         `json:"entity_id"`
	Reason   string         `json:"reason"`
	Changes  []replayChange `json:"changes,omitempty"`
	Final    []replayCell   `json:"final,omitempty"`
}

type replayChange struct {
	Property string `json:"property"`
	Old      string `json:"old,omitempty"`
	New      string `json:"new"`
}

type replayCell struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

func replayReport(res *harness.Result) []replaySet {
	out := make([]replaySet, 0, len(res.Sets))
	for _, cs := range res.Sets {
		rs := replaySet{
			Session:  cs.SessionToken,
			Kind:     cs.Kind.String(),
			EntityID: cs.EntityID,
			Reason:   cs.Reason.String(),
			Changes:  projectChanges(cs.Changes),
		}
		if cs.Final != nil {
			for _, cell := range cs.Final.Cells {
				rs.Final = append(rs.Final, replayCell{Property: cell.Name, Value: cell.Value.Render()})
			}
		}
		out = append(out, rs)
	}
	return out
}

func projectChanges(changes []snapshot.Change) []replayChange {
	out := make([]replayChange, 0, len(changes))
	for _, c := range changes {
		rc := replayChange{Property: c.Property, New: c.New.Render()}
		if c.Old != nil {
			rc.Old = c.Old.Render()
		}
		out = append(out, rc)
	}
	return out
}
