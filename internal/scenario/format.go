package scenario

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kroneus/kroneus-site/internal/model"
)

// FormatText renders the catalog as a human-readable listing grouped by industry.
func FormatText(c *Catalog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d scenario", c.Len())
	if c.Len() != 1 {
		b.WriteString("s")
	}
	b.WriteString(" in catalog\n")

	for _, g := range c.ByIndustry() {
		fmt.Fprintf(&b, "\n%s\n", g.Industry)
		for _, s := range g.Scenarios {
			fmt.Fprintf(&b, "  %-32s %-14s %s\n", s.ID, outcomeLabel(s), s.Name)
		}
	}

	return b.String()
}

func outcomeLabel(s model.Scenario) string {
	switch s.Outcome {
	case model.Blocked:
		return fmt.Sprintf("blocked@%d", s.StopLayer)
	case model.AuthRequired:
		return "auth:" + strings.ToLower(s.AuthLevel)
	default:
		return string(s.Outcome)
	}
}

// FormatJSON renders the catalog in its wire shape.
func FormatJSON(c *Catalog) (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal catalog: %w", err)
	}
	return string(data), nil
}
