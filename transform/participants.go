package transform

import (
	"sort"

	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// findSubprocessParticipants maps every user task inside the subprocess (and
// its nested subprocesses) to the lane the subprocess itself belongs to.
func findSubprocessParticipants(mapping map[string]string, sub *bpmn.Process, laneName string) {
	sub.ParticipantMapping = mapping
	for _, nested := range sub.Subprocesses {
		findSubprocessParticipants(mapping, nested, laneName)
	}
	for _, node := range sub.AllNodes() {
		if _, ok := node.(*bpmn.UserTask); ok {
			mapping[node.GetID()] = laneName
		}
	}
}

// createParticipantMapping builds the node-id to lane-name mapping from the
// lane sets, recursing into subprocesses, and stores it on the process.
func createParticipantMapping(p *bpmn.Process) error {
	if len(p.LaneSets) == 0 {
		return nil
	}

	mapping := map[string]string{}
	for _, laneSet := range p.LaneSets {
		for _, lane := range laneSet.Lanes {
			if lane.Name == "" {
				return errs.UnnamedLane()
			}
			for _, nodeID := range lane.FlowNodeRefs {
				mapping[nodeID] = lane.Name
			}
		}
	}
	for _, sub := range p.Subprocesses {
		if lane, ok := mapping[sub.GetID()]; ok {
			findSubprocessParticipants(mapping, sub, lane)
		}
	}

	p.ParticipantMapping = mapping
	return nil
}

// setGlobalToolspecific emits the net-level resources block listing every
// role of the participant mapping and the single organizational unit.
func setGlobalToolspecific(net *pnml.Net, mapping map[string]string, organization string) {
	if len(mapping) == 0 {
		return
	}
	roleSet := map[string]bool{}
	for _, lane := range mapping {
		roleSet[lane] = true
	}
	roleNames := make([]string, 0, len(roleSet))
	for role := range roleSet {
		roleNames = append(roleNames, role)
	}
	sort.Strings(roleNames)

	roles := make([]pnml.Role, 0, len(roleNames))
	for _, role := range roleNames {
		roles = append(roles, pnml.Role{Name: role})
	}
	net.ToolspecificGlobal = pnml.NewToolspecificGlobal(&pnml.Resources{
		Roles: roles,
		Units: []pnml.OrganizationUnit{{Name: organization}},
	})
}
