// Package model holds the static data types behind the site's security demo.
//
// Everything here is simulation only. Layers, outcomes and scenarios describe a
// pre-scripted animation; no request is inspected and nothing is enforced.
package model

// Outcome is the scripted end state of a scenario playthrough.
type Outcome string

const (
	Blocked      Outcome = "blocked"
	Allowed      Outcome = "allowed"
	AuthRequired Outcome = "auth_required"
)

// Valid reports whether o is one of the three known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case Blocked, Allowed, AuthRequired:
		return true
	}
	return false
}

// Scenario is one pre-authored request or attack shown in the demo.
// StopLayer is 1-based and only meaningful for Blocked; AuthLevel only for AuthRequired.
type Scenario struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Industry    string  `json:"industry" yaml:"industry"`
	Description string  `json:"description" yaml:"description"`
	Outcome     Outcome `json:"outcome" yaml:"outcome"`
	StopLayer   int     `json:"stopLayer,omitempty" yaml:"stopLayer,omitempty"`
	AuthLevel   string  `json:"authLevel,omitempty" yaml:"authLevel,omitempty"`
	Severity    string  `json:"severity" yaml:"severity"`
	Reason      string  `json:"reason" yaml:"reason"`
}
