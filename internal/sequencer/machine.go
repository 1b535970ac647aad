// Package sequencer drives the scripted demo through its six layers.
//
// This is an animation state machine over static scenario data. It does not
// evaluate requests and must never be wired in front of real traffic.
package sequencer

import (
	"errors"

	"github.com/kroneus/kroneus-site/internal/model"
	"github.com/kroneus/kroneus-site/internal/outcome"
)

// Idle is the cursor value before a run starts.
const Idle = -1

// ErrNoScenario is returned when Start is called before any scenario is selected.
var ErrNoScenario = errors.New("sequencer: no scenario selected")

// Phase is the coarse state of a machine.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseHalted  Phase = "halted"
)

// State is the observable sequencer state.
type State struct {
	ScenarioID   string `json:"scenarioId"`
	Cursor       int    `json:"cursor"`
	Running      bool   `json:"running"`
	OutcomeShown bool   `json:"outcomeShown"`
}

// Phase derives the coarse phase from the flags.
func (s State) Phase() Phase {
	switch {
	case s.OutcomeShown:
		return PhaseHalted
	case s.Running:
		return PhaseRunning
	default:
		return PhaseIdle
	}
}

// Snapshot is State plus the presentation details a front-end needs.
type Snapshot struct {
	State
	Phase Phase          `json:"phase"`
	Layer *model.Layer   `json:"layer,omitempty"`
	Panel *outcome.Panel `json:"panel,omitempty"`
}

// Machine is the timer-free sequencer. Callers drive it with Tick.
// Not safe for concurrent use; Player adds locking and timers.
type Machine struct {
	scenario model.Scenario
	selected bool
	state    State
}

// NewMachine returns an idle machine with no scenario selected.
func NewMachine() *Machine {
	return &Machine{state: State{Cursor: Idle}}
}

// Select switches to a scenario and resets to Idle.
func (m *Machine) Select(s model.Scenario) {
	m.scenario = s
	m.selected = true
	m.state = State{ScenarioID: s.ID, Cursor: Idle}
}

// Scenario returns the selected scenario, if any.
func (m *Machine) Scenario() (model.Scenario, bool) {
	return m.scenario, m.selected
}

// Start moves to Running at layer 0. Starting a halted or running machine restarts it.
func (m *Machine) Start() error {
	if !m.selected {
		return ErrNoScenario
	}
	m.state.Cursor = 0
	m.state.Running = true
	m.state.OutcomeShown = false
	return nil
}

// Tick evaluates the halt condition at the current layer and either halts
// or advances. Returns true when this tick halted the run. No-op unless running.
func (m *Machine) Tick() bool {
	if !m.state.Running || m.state.OutcomeShown {
		return false
	}
	if shouldHalt(m.scenario, m.state.Cursor) {
		m.state.Running = false
		m.state.OutcomeShown = true
		return true
	}
	m.state.Cursor++
	return false
}

// Reset returns to Idle, keeping the selected scenario.
func (m *Machine) Reset() {
	m.state = State{ScenarioID: m.state.ScenarioID, Cursor: Idle}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Snapshot returns the state with the current layer and, once halted, the panel.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{State: m.state, Phase: m.state.Phase()}
	if l, ok := model.LayerAt(m.state.Cursor); ok {
		snap.Layer = &l
	}
	if m.state.OutcomeShown {
		p := outcome.Render(m.scenario, m.state.Cursor)
		snap.Panel = &p
	}
	return snap
}

// shouldHalt reports whether a run at zero-based layer n stops on this tick.
func shouldHalt(s model.Scenario, n int) bool {
	if n >= model.LayerCount-1 {
		return true
	}
	switch s.Outcome {
	case model.Blocked:
		return n+1 == s.StopLayer
	case model.AuthRequired:
		return n == model.AuthLayer
	case model.Allowed:
		return n == model.LayerCount-2
	}
	return false
}
