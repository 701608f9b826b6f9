package harness

import (
	"bytes"
	"fmt"

	"github.com/voicemirror/voicemirror/internal/engine"
)

// RenderText renders the trace as deterministic plain text for golden
// comparison. Created and removed sets are summarized by cell count; updated
// sets list every property change in declaration order.
func (r *Result) RenderText() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", r.Scenario.Name)
	fmt.Fprintf(&buf, "session: %s\n", r.Scenario.SessionToken)
	for _, cs := range r.Sets {
		renderSet(&buf, cs)
	}
	return buf.Bytes()
}

func renderSet(buf *bytes.Buffer, cs engine.ChangeSet) {
	switch cs.Reason {
	case engine.ReasonCreated:
		fmt.Fprintf(buf, "[created] %s %d properties=%d\n", cs.Kind, cs.EntityID, len(cs.Changes))
	case engine.ReasonRemoved:
		final := 0
		if cs.Final != nil {
			final = len(cs.Final.Cells)
		}
		fmt.Fprintf(buf, "[removed] %s %d final=%d\n", cs.Kind, cs.EntityID, final)
	default:
		fmt.Fprintf(buf, "[updated] %s %d\n", cs.Kind, cs.EntityID)
		if len(cs.Changes) == 0 {
			buf.WriteString("  (no changes)\n")
			return
		}
		for _, c := range cs.Changes {
			old := "<none>"
			if c.Old != nil {
				old = c.Old.Render()
			}
			fmt.Fprintf(buf, "  %s: %s -> %s\n", c.Property, old, c.New.Render())
		}
	}
}
