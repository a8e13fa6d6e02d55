package equality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/woped/bpmn-pnml-transformer/pnml"
)

func petriNetTypeMap(net *pnml.Net) multiset {
	m := multiset{}
	for _, node := range net.AllNodes() {
		el := node.Element()
		m.add(fmt.Sprintf("%T", node), joinComparable(el.GetID(), el.GetName(), el.Toolspecific.String()))
	}
	for _, arc := range net.Arcs {
		m.add(fmt.Sprintf("%T", arc), joinComparable(arc.Source, arc.Target, arc.Toolspecific.String()))
	}
	if net.ToolspecificGlobal != nil {
		m.add("pnml.ToolspecificGlobal", net.ToolspecificGlobal.String())
	}
	return m
}

// getAllNetsByID collects the root net and every page net keyed by id.
func getAllNetsByID(net *pnml.Net, m map[string]*pnml.Net) {
	if _, ok := m[net.ID]; !ok {
		m[net.ID] = net
	}
	for _, page := range net.Pages {
		if page.Net == nil {
			continue
		}
		key := page.ID
		if key == "" {
			key = page.Net.ID
		}
		m[key] = page.Net
		getAllNetsByID(page.Net, m)
	}
}

// ComparePNML reports whether two Petri nets are structurally equal.
// Differing subnet ids or element types yield a short fixed diagnostic;
// otherwise the diagnostic lists both set differences per element type.
func ComparePNML(a, b *pnml.Net) (bool, string) {
	aNets := map[string]*pnml.Net{}
	getAllNetsByID(a, aNets)
	bNets := map[string]*pnml.Net{}
	getAllNetsByID(b, bNets)

	if !sameNetKeys(aNets, bNets) {
		return false, "Different subnet IDs"
	}

	netIDs := make([]string, 0, len(aNets))
	for id := range aNets {
		netIDs = append(netIDs, id)
	}
	sort.Strings(netIDs)

	var errors []string
	for _, netID := range netIDs {
		aTypes := petriNetTypeMap(aNets[netID])
		bTypes := petriNetTypeMap(bNets[netID])
		if !sameKeys(aTypes, bTypes) {
			return false, "Different Elements"
		}
		errors = append(errors, compareTypeMaps(netID, aTypes, bTypes)...)
	}
	if len(errors) > 0 {
		return false, "Issues petrinet equality for types:\n" + strings.Join(errors, "\n")
	}
	return true, ""
}

func sameNetKeys(a, b map[string]*pnml.Net) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
