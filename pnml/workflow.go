package pnml

import (
	"fmt"
	"sort"
)

// WOPED is the tool attribute value used for all toolspecific annotations.
const WOPED = "WoPeD"

// WorkflowBranchingType identifies the WOPED workflow operator kind.
type WorkflowBranchingType int

// Workflow operator kinds as encoded in the PNML toolspecific block.
const (
	AndSplit        WorkflowBranchingType = 101
	AndJoin         WorkflowBranchingType = 102
	XorSplit        WorkflowBranchingType = 104
	XorJoin         WorkflowBranchingType = 105
	XorJoinSplit    WorkflowBranchingType = 106
	AndJoinSplit    WorkflowBranchingType = 107
	AndJoinXorSplit WorkflowBranchingType = 108
	XorJoinAndSplit WorkflowBranchingType = 109
)

// Operator marks a node as part of a workflow operator group. All nodes
// sharing the same operator ID form one logical gateway.
type Operator struct {
	ID   string                `xml:"id,attr"`
	Type WorkflowBranchingType `xml:"type,attr"`
}

// String returns a stable representation used by the equality oracle.
func (o *Operator) String() string {
	if o == nil {
		return ""
	}
	return fmt.Sprintf("operator(%s,%d)", o.ID, o.Type)
}

// TriggerType identifies the WOPED trigger annotation kind.
type TriggerType int

// Trigger kinds as encoded in the PNML toolspecific block.
const (
	TriggerResource TriggerType = 200
	TriggerMessage  TriggerType = 201
	TriggerTime     TriggerType = 202
)

// Trigger annotates a transition with an external event (time/message/resource).
type Trigger struct {
	ID       string      `xml:"id,attr"`
	Type     TriggerType `xml:"type,attr"`
	Graphics *Graphics   `xml:"graphics,omitempty"`
}

// String returns a stable representation used by the equality oracle.
func (t *Trigger) String() string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("trigger(%d)", t.Type)
}

// TransitionResource assigns a role and organizational unit to a transition.
type TransitionResource struct {
	RoleName               string    `xml:"roleName,attr"`
	OrganizationalUnitName string    `xml:"organizationalUnitName,attr"`
	Graphics               *Graphics `xml:"graphics,omitempty"`
}

// String returns a stable representation used by the equality oracle.
func (r *TransitionResource) String() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("resource(%s,%s)", r.RoleName, r.OrganizationalUnitName)
}

// Role is a named role listed in the global resources block.
type Role struct {
	Name string `xml:"Name,attr"`
}

// OrganizationUnit is a named organizational unit listed in the global resources block.
type OrganizationUnit struct {
	Name string `xml:"Name,attr"`
}

// Resources holds the roles and organizational units of a net.
type Resources struct {
	Roles []Role             `xml:"role"`
	Units []OrganizationUnit `xml:"organizationalUnit"`
}

// ToolspecificGlobal is the net-level toolspecific block carrying the resources.
type ToolspecificGlobal struct {
	Tool      string     `xml:"tool,attr"`
	Version   string     `xml:"version,attr"`
	Resources *Resources `xml:"resources,omitempty"`
}

// NewToolspecificGlobal creates a global toolspecific block for the given resources.
func NewToolspecificGlobal(resources *Resources) *ToolspecificGlobal {
	return &ToolspecificGlobal{Tool: WOPED, Version: "1.0", Resources: resources}
}

// String returns a stable representation used by the equality oracle.
func (g *ToolspecificGlobal) String() string {
	if g == nil || g.Resources == nil {
		return ""
	}
	roles := make([]string, 0, len(g.Resources.Roles))
	for _, r := range g.Resources.Roles {
		roles = append(roles, r.Name)
	}
	units := make([]string, 0, len(g.Resources.Units))
	for _, u := range g.Resources.Units {
		units = append(units, u.Name)
	}
	sort.Strings(roles)
	sort.Strings(units)
	s := "resources"
	for _, r := range roles {
		s += "_role:" + r
	}
	for _, u := range units {
		s += "_unit:" + u
	}
	return s
}
