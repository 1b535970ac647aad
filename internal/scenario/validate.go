package scenario

import (
	"fmt"
	"strings"

	"github.com/kroneus/kroneus-site/internal/model"
)

// ValidationError lists every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid scenario catalog: " + strings.Join(e.Problems, "; ")
}

// Validate applies the cross-field rules the schema cannot express.
// Blocked scenarios need a stopLayer in [1, LayerCount-1] so the sequencer
// always halts before the final layer; auth_required scenarios need an authLevel.
func Validate(c *Catalog) error {
	var problems []string
	seen := make(map[string]bool, len(c.Scenarios))

	for i, s := range c.Scenarios {
		where := fmt.Sprintf("scenario %d", i+1)
		if s.ID != "" {
			where = fmt.Sprintf("scenario %q", s.ID)
		}

		if s.ID == "" {
			problems = append(problems, where+": id is required")
		} else if seen[s.ID] {
			problems = append(problems, where+": duplicate id")
		}
		seen[s.ID] = true

		if s.Name == "" {
			problems = append(problems, where+": name is required")
		}
		if !s.Outcome.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown outcome %q", where, s.Outcome))
		}

		switch s.Outcome {
		case model.Blocked:
			if s.StopLayer < 1 || s.StopLayer > model.LayerCount-1 {
				problems = append(problems, fmt.Sprintf("%s: stopLayer must be between 1 and %d for blocked scenarios, got %d",
					where, model.LayerCount-1, s.StopLayer))
			}
		case model.AuthRequired:
			if s.AuthLevel == "" {
				problems = append(problems, where+": authLevel is required for auth_required scenarios")
			}
		}

		if s.Outcome != model.Blocked && s.StopLayer != 0 {
			problems = append(problems, where+": stopLayer is only valid for blocked scenarios")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
