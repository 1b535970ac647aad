// Package outcome renders the fixed end-of-demo panels. Presentation only.
package outcome

import (
	"fmt"
	"strings"

	"github.com/kroneus/kroneus-site/internal/model"
)

// Badge is a labelled value shown under the panel text.
type Badge struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (b Badge) String() string {
	return b.Label + ": " + b.Value
}

// Panel is one of the three presentation states shown once the sequencer halts.
type Panel struct {
	Outcome  model.Outcome `json:"outcome"`
	Layer    int           `json:"layer"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Heading  string        `json:"heading"`
	Reason   string        `json:"reason"`
	Badges   []Badge       `json:"badges"`
}

// Render builds the panel for a scenario halted at zero-based cursor.
// Panel.Layer is 1-based, matching what the page displays.
func Render(s model.Scenario, cursor int) Panel {
	p := Panel{
		Outcome: s.Outcome,
		Layer:   cursor + 1,
		Reason:  s.Reason,
	}
	risk := Badge{Label: "RISK LEVEL", Value: s.Severity}

	switch s.Outcome {
	case model.Blocked:
		layer, _ := model.LayerAt(cursor)
		p.Title = "THREAT BLOCKED"
		p.Subtitle = fmt.Sprintf("Stopped at Layer %d: %s", cursor+1, layer.Name)
		p.Heading = "THREAT ANALYSIS"
		p.Badges = []Badge{risk}
	case model.AuthRequired:
		p.Title = "AUTHENTICATION REQUIRED"
		p.Subtitle = fmt.Sprintf("Zero Trust Validation at Layer %d", cursor+1)
		p.Heading = "SECURITY POLICY"
		p.Badges = []Badge{{Label: "AUTH TYPE", Value: s.AuthLevel}, risk}
	default:
		p.Title = "REQUEST ALLOWED"
		p.Subtitle = "Validated Through All Security Layers"
		p.Heading = "VALIDATION SUMMARY"
		p.Badges = []Badge{risk}
	}

	return p
}

// Text renders the panel for a terminal.
func (p Panel) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n%s\n  %s\n", p.Title, p.Subtitle, p.Heading, p.Reason)
	if len(p.Badges) > 0 {
		b.WriteString("\n")
		for _, badge := range p.Badges {
			fmt.Fprintf(&b, "  [%s]", badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}
