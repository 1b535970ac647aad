// Package scenario loads and validates the demo scenario catalog.
//
// The catalog is static presentation data for a scripted animation. It is not a
// policy set and nothing in this package decides anything about real traffic.
package scenario

import (
	"errors"
	"fmt"

	"github.com/kroneus/kroneus-site/internal/model"
)

// ErrUnknownScenario is returned when a scenario id is not in the catalog.
var ErrUnknownScenario = errors.New("unknown scenario")

// Catalog is the wire shape served to the front-end: {"scenarios": [...]}.
type Catalog struct {
	Scenarios []model.Scenario `json:"scenarios" yaml:"scenarios"`

	index map[string]int
}

// IndustryGroup is the set of scenarios sharing one industry tag.
type IndustryGroup struct {
	Industry  string           `json:"industry"`
	Scenarios []model.Scenario `json:"scenarios"`
}

func newCatalog(scenarios []model.Scenario) *Catalog {
	c := &Catalog{
		Scenarios: scenarios,
		index:     make(map[string]int, len(scenarios)),
	}
	for i, s := range scenarios {
		c.index[s.ID] = i
	}
	return c
}

// Len returns the number of scenarios.
func (c *Catalog) Len() int {
	return len(c.Scenarios)
}

// Lookup returns the scenario with the given id.
func (c *Catalog) Lookup(id string) (model.Scenario, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Scenario{}, false
	}
	return c.Scenarios[i], true
}

// Get is Lookup with an error wrapping ErrUnknownScenario.
func (c *Catalog) Get(id string) (model.Scenario, error) {
	s, ok := c.Lookup(id)
	if !ok {
		return model.Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
	return s, nil
}

// ByIndustry groups scenarios by industry in order of first appearance.
func (c *Catalog) ByIndustry() []IndustryGroup {
	var groups []IndustryGroup
	pos := make(map[string]int)
	for _, s := range c.Scenarios {
		i, seen := pos[s.Industry]
		if !seen {
			i = len(groups)
			pos[s.Industry] = i
			groups = append(groups, IndustryGroup{Industry: s.Industry})
		}
		groups[i].Scenarios = append(groups[i].Scenarios, s)
	}
	return groups
}
