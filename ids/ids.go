// Package ids centralizes the deterministic id construction shared by the
// BPMN and Petri-net graphs. Several transformation passes recognize and
// reverse these strings, so their exact shape is part of the contract.
package ids

// SilentNode returns the id of a silent node inserted between source and target.
func SilentNode(source, target string) string {
	return "SILENTFROM" + source + "TO" + target
}

// Arc returns the default id of an arc or flow from source to target.
func Arc(source, target string) string {
	return source + "TO" + target
}

// ExplicitTransition returns the id of the explicit task split off a named gateway.
func ExplicitTransition(id string) string {
	return "EXPLICIT" + id
}

// Trigger returns the id of the trigger helper split off an annotated transition.
func Trigger(id string) string {
	return "TRIGGER" + id
}

// Source returns the id of the place capping a dangling source transition.
func Source(id string) string {
	return "SOURCE" + id
}

// Sink returns the id of the place capping a dangling sink transition.
func Sink(id string) string {
	return "SINK" + id
}
