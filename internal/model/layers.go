package model

// Layer is one named stage of the six-stage demo architecture.
type Layer struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// LayerCount is the fixed number of demo layers.
const LayerCount = 6

// AuthLayer is the zero-based index where auth_required scenarios stop.
const AuthLayer = 2

var layers = [LayerCount]Layer{
	{Name: "Input Validation", Description: "Validates all incoming requests and filters malicious inputs"},
	{Name: "Behavioral Analysis", Description: "Analysis of agent behavior patterns in real time"},
	{Name: "Policy Enforcement", Description: "Enforces strict business logic and compliance rules"},
	{Name: "Threat Detection", Description: "Identifies known attack patterns and anomalies"},
	{Name: "Action Filtering", Description: "Blocks unauthorized actions before execution"},
	{Name: "Audit Logging", Description: "Tamper-evident audit trail"},
}

// Layers returns a copy of the ordered layer list.
func Layers() []Layer {
	out := make([]Layer, LayerCount)
	copy(out, layers[:])
	return out
}

// LayerAt returns the layer at zero-based index i.
func LayerAt(i int) (Layer, bool) {
	if i < 0 || i >= LayerCount {
		return Layer{}, false
	}
	return layers[i], true
}
