package transform

import (
	"sort"

	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// unknownLane collects every node without a role annotation.
const unknownLane = "Unknown participant"

func resourceElements(net *pnml.Net) []pnml.Node {
	var resources []pnml.Node
	for _, node := range net.AllNodes() {
		if node.Element().IsWorkflowResource() {
			resources = append(resources, node)
		}
	}
	return resources
}

// hasResources reports whether the net or any of its pages carries a
// resource annotation.
func hasResources(net *pnml.Net) bool {
	if len(resourceElements(net)) > 0 {
		return true
	}
	for _, page := range net.Pages {
		if page.Net != nil && hasResources(page.Net) {
			return true
		}
	}
	return false
}

// findRoleOfSubprocess returns the single role used inside the page net and
// its nested pages; differing roles are a mapping error.
func findRoleOfSubprocess(net *pnml.Net, currentRole string) (string, error) {
	for _, resource := range resourceElements(net) {
		role := resource.Element().Toolspecific.TransitionResource.RoleName
		if currentRole != "" && currentRole != role {
			return "", errs.UnknownResourceOrganizationMapping()
		}
		currentRole = role
	}
	for _, page := range net.Pages {
		if page.Net == nil {
			continue
		}
		nested, err := findRoleOfSubprocess(page.Net, currentRole)
		if err != nil {
			return "", err
		}
		if nested != "" {
			currentRole = nested
		}
	}
	return currentRole, nil
}

// collectOrganization returns the single organizational unit used anywhere in
// the net, including nested pages.
func collectOrganization(net *pnml.Net, current string) (string, error) {
	for _, resource := range resourceElements(net) {
		organization := resource.Element().Toolspecific.TransitionResource.OrganizationalUnitName
		if current != "" && current != organization {
			return "", errs.UnknownResourceOrganizationMapping()
		}
		current = organization
	}
	for _, page := range net.Pages {
		if page.Net == nil {
			continue
		}
		nested, err := collectOrganization(page.Net, current)
		if err != nil {
			return "", err
		}
		current = nested
	}
	return current, nil
}

// annotateResources turns the resource annotations of the root net into BPMN
// lanes inside a single lane set plus a collaboration with one participant
// named after the organizational unit. Unannotated nodes land in a synthetic
// lane.
func annotateResources(net *pnml.Net, d *bpmn.Definitions) error {
	organization, err := collectOrganization(net, "")
	if err != nil {
		return err
	}

	roleMap := map[string][]string{}
	for _, resource := range resourceElements(net) {
		role := resource.Element().Toolspecific.TransitionResource.RoleName
		roleMap[role] = append(roleMap[role], resource.GetID())
	}

	// a subprocess joins the lane of the single role found inside its page
	for _, page := range net.Pages {
		if page.Net == nil {
			continue
		}
		role, err := findRoleOfSubprocess(page.Net, "")
		if err != nil {
			return err
		}
		if role != "" {
			roleMap[role] = append(roleMap[role], page.ID)
		}
	}

	handled := map[string]bool{}
	for _, nodeIDs := range roleMap {
		for _, id := range nodeIDs {
			handled[id] = true
		}
	}
	var unhandled []string
	for _, node := range net.AllNodes() {
		if !handled[node.GetID()] {
			unhandled = append(unhandled, node.GetID())
		}
	}
	if len(unhandled) > 0 {
		roleMap[unknownLane] = unhandled
	}

	d.Collaboration = &bpmn.Collaboration{
		ID: "collaboration",
		Participant: &bpmn.Participant{
			ID:         "participant",
			Name:       organization,
			ProcessRef: d.Process.GetID(),
		},
	}

	roles := make([]string, 0, len(roleMap))
	for role := range roleMap {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var lanes []*bpmn.Lane
	for _, role := range roles {
		refs := roleMap[role]
		if len(refs) == 0 {
			continue
		}
		sort.Strings(refs)
		lanes = append(lanes, &bpmn.Lane{ID: role, Name: role, FlowNodeRefs: refs})
	}
	d.Process.LaneSets = []*bpmn.LaneSet{{ID: "ls", Lanes: lanes}}
	return nil
}
