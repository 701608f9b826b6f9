package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one YAML-defined harness run.
type Scenario struct {
	// Name uniquely identifies the scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// SessionToken is the fixed token stamped on every publish. Defaults to
	// "trace-default" so golden comparison stays deterministic.
	SessionToken string `yaml:"session_token,omitempty"`

	// World declares the initial host state before the session attaches.
	World World `yaml:"world"`

	// Steps run in order after the attach sync.
	Steps []Step `yaml:"steps,omitempty"`
}

// World is the initial host state. The server always exists; ServerID
// defaults to 1.
type World struct {
	ServerID uint64         `yaml:"server_id,omitempty"`
	Server   map[string]any `yaml:"server,omitempty"`
	Channels []WorldEntity  `yaml:"channels,omitempty"`
	Clients  []WorldEntity  `yaml:"clients,omitempty"`
}

// WorldEntity is one channel or client in the initial world. For clients,
// ChannelID seeds the channel_id property.
type WorldEntity struct {
	ID         uint64         `yaml:"id"`
	ChannelID  uint64         `yaml:"channel_id,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

// Step is one scenario action. Exactly one field must be set.
type Step struct {
	// Set writes a property value on the fake host.
	Set *SetStep `yaml:"set,omitempty"`
	// Fail injects a fetch failure for one property.
	Fail *FailStep `yaml:"fail,omitempty"`
	// Clear removes an injected failure.
	Clear *ClearStep `yaml:"clear,omitempty"`
	// Add creates a new channel or client on the fake host.
	Add *AddStep `yaml:"add,omitempty"`
	// Remove deletes a channel or client from the fake host.
	Remove *RemoveStep `yaml:"remove,omitempty"`
	// Notify delivers a notification to the session.
	Notify *NotifyStep `yaml:"notify,omitempty"`
}

// SetStep writes one property value. Strings become string properties,
// integers and booleans become numeric ones.
type SetStep struct {
	Kind     string `yaml:"kind"`
	ID       uint64 `yaml:"id,omitempty"`
	Property string `yaml:"property"`
	Value    any    `yaml:"value"`
}

// FailStep injects a fetch failure. Error is an error kind wire name
// (not_found, unavailable, invalid_data, permission_denied).
type FailStep struct {
	Kind     string `yaml:"kind"`
	ID       uint64 `yaml:"id,omitempty"`
	Property string `yaml:"property"`
	Error    string `yaml:"error"`
}

// ClearStep removes a previously injected failure.
type ClearStep struct {
	Kind     string `yaml:"kind"`
	ID       uint64 `yaml:"id,omitempty"`
	Property string `yaml:"property"`
}

// AddStep creates a channel or client mid-scenario. The session does not see
// it until a notify step announces it.
type AddStep struct {
	Kind       string         `yaml:"kind"`
	ID         uint64         `yaml:"id"`
	ChannelID  uint64         `yaml:"channel_id,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

// RemoveStep deletes a channel or client from the host.
type RemoveStep struct {
	Kind string `yaml:"kind"`
	ID   uint64 `yaml:"id"`
}

// NotifyStep delivers one notification. Event is a wire name (appeared,
// changed, moved, removed).
type NotifyStep struct {
	Kind       string `yaml:"kind"`
	Event      string `yaml:"event"`
	ID         uint64 `yaml:"id,omitempty"`
	OldChannel uint64 `yaml:"old_channel,omitempty"`
	NewChannel uint64 `yaml:"new_channel,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected, so typos fail loudly instead of silently dropping steps.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.SessionToken == "" {
		s.SessionToken = "trace-default"
	}
	if s.World.ServerID == 0 {
		s.World.ServerID = 1
	}
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	for i, step := range s.Steps {
		n := 0
		if step.Set != nil {
			n++
		}
		if step.Fail != nil {
			n++
		}
		if step.Clear != nil {
			n++
		}
		if step.Add != nil {
			n++
		}
		if step.Remove != nil {
			n++
		}
		if step.Notify != nil {
			n++
		}
		if n != 1 {
			return fmt.Errorf("step %d: exactly one action per step, got %d", i, n)
		}
	}
	return nil
}
