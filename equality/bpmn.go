package equality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/woped/bpmn-pnml-transformer/bpmn"
)

func bpmnTypeMap(p *bpmn.Process) multiset {
	m := multiset{}
	for _, node := range p.AllNodes() {
		base := node.Base()
		outgoing := append([]string(nil), base.Outgoing...)
		incoming := append([]string(nil), base.Incoming...)
		sort.Strings(outgoing)
		sort.Strings(incoming)
		m.add(fmt.Sprintf("%T", node), joinComparable(
			base.ID,
			base.Name,
			fmt.Sprintf("%v", outgoing),
			fmt.Sprintf("%v", incoming),
		))
	}
	for _, flow := range p.Flows {
		m.add(fmt.Sprintf("%T", flow), joinComparable(flow.Name, flow.SourceRef, flow.TargetRef))
	}
	return m
}

// getAllProcessesByID collects the process and every subprocess keyed by id.
func getAllProcessesByID(p *bpmn.Process, m map[string]*bpmn.Process) {
	if _, ok := m[p.GetID()]; !ok {
		m[p.GetID()] = p
	}
	for _, sub := range p.Subprocesses {
		m[sub.GetID()] = sub
		getAllProcessesByID(sub, m)
	}
}

// CompareBPMN reports whether two BPMN documents are structurally equal.
// Differing process ids or element types yield a short fixed diagnostic;
// otherwise the diagnostic lists both set differences per element type.
func CompareBPMN(a, b *bpmn.Definitions) (bool, string) {
	aProcesses := map[string]*bpmn.Process{}
	getAllProcessesByID(a.Process, aProcesses)
	bProcesses := map[string]*bpmn.Process{}
	getAllProcessesByID(b.Process, bProcesses)

	if !sameProcessKeys(aProcesses, bProcesses) {
		return false, "Wrong processes IDs"
	}

	processIDs := make([]string, 0, len(aProcesses))
	for id := range aProcesses {
		processIDs = append(processIDs, id)
	}
	sort.Strings(processIDs)

	var errors []string
	for _, processID := range processIDs {
		aTypes := bpmnTypeMap(aProcesses[processID])
		bTypes := bpmnTypeMap(bProcesses[processID])
		if !sameKeys(aTypes, bTypes) {
			return false, "Different Elements"
		}
		errors = append(errors, compareTypeMaps(processID, aTypes, bTypes)...)
	}
	if len(errors) > 0 {
		return false, "Issues BPMN equality for types:\n" + strings.Join(errors, "\n")
	}
	return true, ""
}

func sameProcessKeys(a, b map[string]*bpmn.Process) bool {
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
