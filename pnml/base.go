package pnml

import (
	"fmt"
	"strings"
)

// Coordinates is a 2D point used by the graphics blocks.
type Coordinates struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

// Graphics carries placeholder geometry for a net element.
type Graphics struct {
	Offset    *Coordinates `xml:"offset,omitempty"`
	Dimension *Coordinates `xml:"dimension,omitempty"`
	Position  *Coordinates `xml:"position,omitempty"`
}

// Name is the label block of a place or transition.
type Name struct {
	Graphics *Graphics `xml:"graphics,omitempty"`
	Text     string    `xml:"text,omitempty"`
}

// Toolspecific is the per-node WOPED annotation block. Nil sub-fields mean
// the respective annotation is absent.
type Toolspecific struct {
	Tool    string `xml:"tool,attr"`
	Version string `xml:"version,attr"`

	// plain transition
	Time        string `xml:"time,omitempty"`
	TimeUnit    string `xml:"timeUnit,omitempty"`
	Orientation string `xml:"orientation,omitempty"`

	// workflow operator
	Operator *Operator `xml:"operator,omitempty"`

	// trigger and resource
	Trigger            *Trigger            `xml:"trigger,omitempty"`
	TransitionResource *TransitionResource `xml:"transitionResource,omitempty"`

	// arc
	Probability                string       `xml:"probability,omitempty"`
	DisplayProbabilityOn       string       `xml:"displayProbabilityOn,omitempty"`
	DisplayProbabilityPosition *Coordinates `xml:"displayProbabilityPosition,omitempty"`

	// subprocess
	Subprocess bool `xml:"subprocess,omitempty"`
}

// NewToolspecific creates an empty WOPED toolspecific block.
func NewToolspecific() *Toolspecific {
	return &Toolspecific{Tool: WOPED, Version: "1.0"}
}

// IsWorkflowOperator reports whether this block marks a workflow operator.
func (t *Toolspecific) IsWorkflowOperator() bool {
	return t != nil && t.Tool == WOPED && t.Operator != nil
}

// IsWorkflowSubprocess reports whether this block marks a subprocess transition.
func (t *Toolspecific) IsWorkflowSubprocess() bool {
	return t != nil && t.Tool == WOPED && t.Subprocess
}

// IsWorkflowTime reports whether this block carries a time trigger.
func (t *Toolspecific) IsWorkflowTime() bool {
	return t != nil && t.Tool == WOPED && t.Trigger != nil && t.Trigger.Type == TriggerTime
}

// IsWorkflowMessage reports whether this block carries a message trigger.
func (t *Toolspecific) IsWorkflowMessage() bool {
	return t != nil && t.Tool == WOPED && t.Trigger != nil && t.Trigger.Type == TriggerMessage
}

// IsWorkflowEventTrigger reports whether this block carries a time or message trigger.
func (t *Toolspecific) IsWorkflowEventTrigger() bool {
	return t.IsWorkflowTime() || t.IsWorkflowMessage()
}

// IsWorkflowResource reports whether this block assigns a resource.
func (t *Toolspecific) IsWorkflowResource() bool {
	return t != nil && t.Tool == WOPED && t.TransitionResource != nil
}

// Copy returns a deep copy of the block.
func (t *Toolspecific) Copy() *Toolspecific {
	if t == nil {
		return nil
	}
	c := *t
	if t.Operator != nil {
		op := *t.Operator
		c.Operator = &op
	}
	if t.Trigger != nil {
		tr := *t.Trigger
		c.Trigger = &tr
	}
	if t.TransitionResource != nil {
		res := *t.TransitionResource
		c.TransitionResource = &res
	}
	return &c
}

// String returns a stable representation used by the equality oracle.
func (t *Toolspecific) String() string {
	if t == nil {
		return ""
	}
	parts := []string{t.Tool, t.Version}
	if t.Time != "" {
		parts = append(parts, "time:"+t.Time)
	}
	if op := t.Operator.String(); op != "" {
		parts = append(parts, op)
	}
	if tr := t.Trigger.String(); tr != "" {
		parts = append(parts, tr)
	}
	if r := t.TransitionResource.String(); r != "" {
		parts = append(parts, r)
	}
	if t.Subprocess {
		parts = append(parts, "subprocess")
	}
	return strings.Join(parts, "_")
}

// NetElement is the shared header of places, transitions and transformation
// helper nodes: a stable id, an optional name, optional geometry and an
// optional toolspecific annotation.
type NetElement struct {
	ID           string        `xml:"id,attr"`
	Name         *Name         `xml:"name,omitempty"`
	Graphics     *Graphics     `xml:"graphics,omitempty"`
	Toolspecific *Toolspecific `xml:"toolspecific,omitempty"`
}

// GetID returns the element id.
func (e *NetElement) GetID() string { return e.ID }

// GetName returns the element name, or the empty string for a silent element.
func (e *NetElement) GetName() string {
	if e.Name == nil {
		return ""
	}
	return e.Name.Text
}

// SetName sets the element name; the empty string clears it.
func (e *NetElement) SetName(name string) {
	if name == "" {
		e.Name = nil
		return
	}
	e.Name = &Name{Text: name}
}

// IsWorkflowOperator reports whether the element is part of a workflow operator group.
func (e *NetElement) IsWorkflowOperator() bool { return e.Toolspecific.IsWorkflowOperator() }

// IsWorkflowSubprocess reports whether the element stands for a nested page.
func (e *NetElement) IsWorkflowSubprocess() bool { return e.Toolspecific.IsWorkflowSubprocess() }

// IsWorkflowTime reports whether the element carries a time trigger.
func (e *NetElement) IsWorkflowTime() bool { return e.Toolspecific.IsWorkflowTime() }

// IsWorkflowMessage reports whether the element carries a message trigger.
func (e *NetElement) IsWorkflowMessage() bool { return e.Toolspecific.IsWorkflowMessage() }

// IsWorkflowEventTrigger reports whether the element carries a time or message trigger.
func (e *NetElement) IsWorkflowEventTrigger() bool { return e.Toolspecific.IsWorkflowEventTrigger() }

// IsWorkflowResource reports whether the element is assigned to a resource.
func (e *NetElement) IsWorkflowResource() bool { return e.Toolspecific.IsWorkflowResource() }

func (e *NetElement) ensureToolspecific() *Toolspecific {
	if e.Toolspecific == nil {
		e.Toolspecific = NewToolspecific()
	}
	return e.Toolspecific
}

// MarkAsWorkflowOperator marks the element as part of the operator group id.
func (e *NetElement) MarkAsWorkflowOperator(t WorkflowBranchingType, id string) {
	e.ensureToolspecific().Operator = &Operator{ID: id, Type: t}
}

// MarkAsWorkflowSubprocess marks the element as standing for a nested page.
func (e *NetElement) MarkAsWorkflowSubprocess() {
	e.ensureToolspecific().Subprocess = true
}

// MarkAsWorkflowTime attaches a time trigger to the element.
func (e *NetElement) MarkAsWorkflowTime() {
	e.ensureToolspecific().Trigger = &Trigger{ID: e.ID, Type: TriggerTime}
}

// MarkAsWorkflowMessage attaches a message trigger to the element.
func (e *NetElement) MarkAsWorkflowMessage() {
	e.ensureToolspecific().Trigger = &Trigger{ID: e.ID, Type: TriggerMessage}
}

// MarkAsWorkflowResource assigns the element to a role and organizational unit.
func (e *NetElement) MarkAsWorkflowResource(roleName, organizationalUnitName string) {
	e.ensureToolspecific().TransitionResource = &TransitionResource{
		RoleName:               roleName,
		OrganizationalUnitName: organizationalUnitName,
	}
}

// SetCopyOfToolspecific replaces the element annotation with a deep copy of t.
func (e *NetElement) SetCopyOfToolspecific(t *Toolspecific) {
	e.Toolspecific = t.Copy()
}

// Inscription is the optional label block of an arc.
type Inscription struct {
	Text     string    `xml:"text"`
	Graphics *Graphics `xml:"graphics,omitempty"`
}

// Arc is a directed edge between a place and a transition.
type Arc struct {
	ID           string        `xml:"id,attr"`
	Source       string        `xml:"source,attr"`
	Target       string        `xml:"target,attr"`
	Inscription  *Inscription  `xml:"inscription,omitempty"`
	Graphics     *Graphics     `xml:"graphics,omitempty"`
	Toolspecific *Toolspecific `xml:"toolspecific,omitempty"`
}

func (a *Arc) String() string {
	return fmt.Sprintf("%s->%s", a.Source, a.Target)
}
