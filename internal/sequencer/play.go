package sequencer

import (
	"github.com/kroneus/kroneus-site/internal/model"
	"github.com/kroneus/kroneus-site/internal/outcome"
)

// Frame is the machine state after one tick. Tick 0 is the start frame.
type Frame struct {
	Tick   int    `json:"tick"`
	Cursor int    `json:"cursor"`
	Layer  string `json:"layer"`
	Halted bool   `json:"halted"`
}

// Playthrough is a complete run of one scenario without timers.
type Playthrough struct {
	Scenario model.Scenario `json:"scenario"`
	Frames   []Frame        `json:"frames"`
	Ticks    int            `json:"ticks"`
	Cursor   int            `json:"cursor"`
	Panel    outcome.Panel  `json:"panel"`
}

// Play runs a scenario from Start to Halted and records every frame.
func Play(s model.Scenario) Playthrough {
	m := NewMachine()
	m.Select(s)
	_ = m.Start()

	pt := Playthrough{Scenario: s}
	pt.Frames = append(pt.Frames, frameOf(m, 0, false))

	for tick := 1; ; tick++ {
		halted := m.Tick()
		pt.Frames = append(pt.Frames, frameOf(m, tick, halted))
		if halted {
			pt.Ticks = tick
			break
		}
	}

	pt.Cursor = m.State().Cursor
	pt.Panel = outcome.Render(s, pt.Cursor)
	return pt
}

func frameOf(m *Machine, tick int, halted bool) Frame {
	cursor := m.State().Cursor
	layer, _ := model.LayerAt(cursor)
	return Frame{Tick: tick, Cursor: cursor, Layer: layer.Name, Halted: halted}
}
