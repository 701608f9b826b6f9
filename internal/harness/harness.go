package harness

import (
	"fmt"

	"github.com/voicemirror/voicemirror/internal/engine"
	"github.com/voicemirror/voicemirror/internal/host"
	"github.com/voicemirror/voicemirror/internal/prop"
	"github.com/voicemirror/voicemirror/internal/schema"
)

// Result captures every change set published during a scenario run, in
// publish order.
type Result struct {
	Scenario *Scenario
	Sets     []engine.ChangeSet
}

// Run builds the scenario's world on a fake host, attaches a session with
// the scenario's fixed token, executes the steps, and returns the collected
// trace.
func Run(scn *Scenario) (*Result, error) {
	f := host.NewFake()
	if err := buildWorld(f, scn.World); err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}

	s := engine.NewSession(f, scn.World.ServerID, engine.NewFixedGenerator(scn.SessionToken))
	res := &Result{Scenario: scn}
	s.SubscribeAll(func(cs engine.ChangeSet) { res.Sets = append(res.Sets, cs) })

	if err := s.Attach(); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	defer s.Detach()

	for i, step := range scn.Steps {
		if err := runStep(f, s, scn.World.ServerID, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return res, nil
}

func buildWorld(f *host.Fake, w World) error {
	f.AddServer(w.ServerID)
	if err := applyProperties(f, host.ClassServer, w.ServerID, w.ServerID, w.Server); err != nil {
		return err
	}
	for _, ch := range w.Channels {
		f.AddChannel(w.ServerID, ch.ID)
		if err := applyProperties(f, host.ClassChannel, w.ServerID, ch.ID, ch.Properties); err != nil {
			return err
		}
	}
	for _, cl := range w.Clients {
		f.AddClient(w.ServerID, cl.ID)
		if cl.ChannelID != 0 {
			f.SetInt(host.ClassClient, w.ServerID, cl.ID, "channel_id", int64(cl.ChannelID))
		}
		if err := applyProperties(f, host.ClassClient, w.ServerID, cl.ID, cl.Properties); err != nil {
			return err
		}
	}
	return nil
}

func runStep(f *host.Fake, s *engine.Session, serverID uint64, step Step) error {
	switch {
	case step.Set != nil:
		class, id, err := target(step.Set.Kind, step.Set.ID, serverID)
		if err != nil {
			return err
		}
		return applyProperties(f, class, serverID, id, map[string]any{step.Set.Property: step.Set.Value})

	case step.Fail != nil:
		class, id, err := target(step.Fail.Kind, step.Fail.ID, serverID)
		if err != nil {
			return err
		}
		kind, err := prop.ParseErrorKind(step.Fail.Error)
		if err != nil {
			return err
		}
		f.FailWith(class, serverID, id, step.Fail.Property, kind)
		return nil

	case step.Clear != nil:
		class, id, err := target(step.Clear.Kind, step.Clear.ID, serverID)
		if err != nil {
			return err
		}
		f.ClearFailure(class, serverID, id, step.Clear.Property)
		return nil

	case step.Add != nil:
		class, _, err := target(step.Add.Kind, step.Add.ID, serverID)
		if err != nil {
			return err
		}
		switch class {
		case host.ClassChannel:
			f.AddChannel(serverID, step.Add.ID)
		case host.ClassClient:
			f.AddClient(serverID, step.Add.ID)
			if step.Add.ChannelID != 0 {
				f.SetInt(host.ClassClient, serverID, step.Add.ID, "channel_id", int64(step.Add.ChannelID))
			}
		default:
			return fmt.Errorf("cannot add entity of kind %q", step.Add.Kind)
		}
		return applyProperties(f, class, serverID, step.Add.ID, step.Add.Properties)

	case step.Remove != nil:
		class, _, err := target(step.Remove.Kind, step.Remove.ID, serverID)
		if err != nil {
			return err
		}
		switch class {
		case host.ClassChannel:
			f.RemoveChannel(serverID, step.Remove.ID)
		case host.ClassClient:
			f.RemoveClient(serverID, step.Remove.ID)
		default:
			return fmt.Errorf("cannot remove entity of kind %q", step.Remove.Kind)
		}
		return nil

	case step.Notify != nil:
		kind, ok := schema.ParseKind(step.Notify.Kind)
		if !ok {
			return fmt.Errorf("unknown entity kind %q", step.Notify.Kind)
		}
		event, ok := engine.ParseEventKind(step.Notify.Event)
		if !ok {
			return fmt.Errorf("unknown event %q", step.Notify.Event)
		}
		id := step.Notify.ID
		if kind == schema.KindServer && id == 0 {
			id = serverID
		}
		return s.Handle(engine.Notification{
			Kind:         kind,
			Event:        event,
			ServerID:     serverID,
			EntityID:     id,
			OldChannelID: step.Notify.OldChannel,
			NewChannelID: step.Notify.NewChannel,
		})
	}
	return fmt.Errorf("empty step")
}

// target resolves a step's kind name and id to a fake-host class and entity
// id. Server steps may omit the id.
func target(kindName string, id, serverID uint64) (host.Class, uint64, error) {
	class, ok := host.ParseClass(kindName)
	if !ok {
		return 0, 0, fmt.Errorf("unknown entity kind %q", kindName)
	}
	if class == host.ClassServer {
		return class, serverID, nil
	}
	if id == 0 {
		return 0, 0, fmt.Errorf("%s step requires an id", kindName)
	}
	return class, id, nil
}

// applyProperties writes YAML property values onto the fake host. Strings
// become string properties; integers and booleans become numeric ones.
func applyProperties(f *host.Fake, class host.Class, serverID, id uint64, props map[string]any) error {
	for name, v := range props {
		switch x := v.(type) {
		case string:
			f.SetString(class, serverID, id, name, x)
		case int:
			f.SetInt(class, serverID, id, name, int64(x))
		case int64:
			f.SetInt(class, serverID, id, name, x)
		case uint64:
			f.SetInt(class, serverID, id, name, int64(x))
		case bool:
			n := int64(0)
			if x {
				n = 1
			}
			f.SetInt(class, serverID, id, name, n)
		default:
			return fmt.Errorf("property %s: unsupported value type %T", name, v)
		}
	}
	return nil
}
