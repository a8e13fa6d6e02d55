package transform

import (
	"sort"

	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/ids"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// operatorWrapper collects one workflow operator group: all nodes sharing an
// operator id, their outward faces and every incident arc.
type operatorWrapper struct {
	id   string
	name string
	t    pnml.WorkflowBranchingType

	nodes []pnml.Node

	incomingArcs []*pnml.Arc
	outgoingArcs []*pnml.Arc
	allArcs      []*pnml.Arc
}

// toolspecific returns the annotation block of the first operator transition.
func (w *operatorWrapper) toolspecific() *pnml.Toolspecific {
	for _, node := range w.nodes {
		if _, ok := node.(*pnml.Transition); !ok {
			continue
		}
		if node.Element().Toolspecific == nil {
			continue
		}
		return node.Element().Toolspecific
	}
	panic(errs.Internalf("operator group %q has no annotated transition", w.id))
}

// uniqueInArcs returns copies of the incoming arcs with duplicate sources dropped.
func (w *operatorWrapper) uniqueInArcs() []*pnml.Arc {
	seen := map[string]bool{}
	var arcs []*pnml.Arc
	for _, a := range w.incomingArcs {
		if seen[a.Source] {
			continue
		}
		seen[a.Source] = true
		c := *a
		arcs = append(arcs, &c)
	}
	return arcs
}

// uniqueOutArcs returns copies of the outgoing arcs with duplicate targets dropped.
func (w *operatorWrapper) uniqueOutArcs() []*pnml.Arc {
	seen := map[string]bool{}
	var arcs []*pnml.Arc
	for _, a := range w.outgoingArcs {
		if seen[a.Target] {
			continue
		}
		seen[a.Target] = true
		c := *a
		arcs = append(arcs, &c)
	}
	return arcs
}

// findWorkflowOperators groups every operator-marked node by its operator id
// and computes the group's outward faces. The result is sorted by operator
// id so downstream numbering is deterministic.
func findWorkflowOperators(net *pnml.Net) []*operatorWrapper {
	groups := map[string][]pnml.Node{}
	for _, node := range net.AllNodes() {
		if !node.Element().IsWorkflowOperator() {
			continue
		}
		opID := node.Element().Toolspecific.Operator.ID
		groups[opID] = append(groups[opID], node)
	}

	opIDs := make([]string, 0, len(groups))
	for id := range groups {
		opIDs = append(opIDs, id)
	}
	sort.Strings(opIDs)

	var wrappers []*operatorWrapper
	for _, opID := range opIDs {
		members := groups[opID]
		sort.Slice(members, func(i, j int) bool { return members[i].GetID() < members[j].GetID() })

		memberIDs := map[string]bool{}
		for _, m := range members {
			memberIDs[m.GetID()] = true
		}
		name := ""
		for _, m := range members {
			if n := m.Element().GetName(); n != "" {
				name = n
				break
			}
		}
		w := &operatorWrapper{
			id:    opID,
			name:  name,
			t:     members[0].Element().Toolspecific.Operator.Type,
			nodes: members,
		}
		seenArcs := map[string]bool{}
		for _, member := range members {
			for _, arc := range net.GetIncoming(member.GetID()) {
				if !seenArcs[arc.ID] {
					seenArcs[arc.ID] = true
					w.allArcs = append(w.allArcs, arc)
				}
				if memberIDs[arc.Source] {
					continue
				}
				w.incomingArcs = append(w.incomingArcs, arc)
			}
			for _, arc := range net.GetOutgoing(member.GetID()) {
				if !seenArcs[arc.ID] {
					seenArcs[arc.ID] = true
					w.allArcs = append(w.allArcs, arc)
				}
				if memberIDs[arc.Target] {
					continue
				}
				w.outgoingArcs = append(w.outgoingArcs, arc)
			}
		}
		wrappers = append(wrappers, w)
	}
	return wrappers
}

func (w *operatorWrapper) removeFromNet(net *pnml.Net) {
	for _, arc := range w.allArcs {
		net.RemoveArc(arc)
	}
	for _, node := range w.nodes {
		net.RemoveNode(node)
	}
}

// handleSingleOperator expands a plain split or join group into one gateway
// helper, extracting a named group's implicit task into an explicit
// transition on the gateway's outside face.
func handleSingleOperator(net *pnml.Net, w *operatorWrapper) {
	incoming := w.uniqueInArcs()
	outgoing := w.uniqueOutArcs()
	ts := w.toolspecific()
	w.removeFromNet(net)

	var gateway pnml.Node
	if w.t == pnml.XorJoin || w.t == pnml.XorSplit {
		gateway = pnml.NewXORHelper(w.id, w.name)
	} else {
		gateway = pnml.NewANDHelper(w.id, w.name)
	}
	gateway.Element().SetCopyOfToolspecific(ts)

	net.AddNode(gateway)
	net.ConnectToElement(gateway, incoming)
	net.ConnectFromElement(gateway, outgoing)

	if w.name == "" {
		return
	}
	gateway.Element().SetName("")

	explicit := pnml.NewTransition(ids.ExplicitTransition(w.id), w.name)
	explicit.SetCopyOfToolspecific(ts)
	if ts.IsWorkflowEventTrigger() {
		gateway.Element().Toolspecific = nil
	}
	net.AddNode(explicit)

	if w.t == pnml.AndJoin || w.t == pnml.XorJoin {
		// join: the task runs after the operator
		var outArc *pnml.Arc
		if outs := net.GetOutgoing(gateway.GetID()); len(outs) > 0 {
			outArc = outs[0]
		}
		net.AddArc(gateway, explicit)
		if outArc != nil {
			net.AddArcFromID(explicit.GetID(), outArc.Target)
			net.RemoveArc(outArc)
		}
	} else {
		// split: the task runs before the operator
		var inArc *pnml.Arc
		if ins := net.GetIncoming(gateway.GetID()); len(ins) > 0 {
			inArc = ins[0]
		}
		net.AddArc(explicit, gateway)
		if inArc != nil {
			net.AddArcFromID(inArc.Source, explicit.GetID())
			net.RemoveArc(inArc)
		}
	}
}

// handleCombinedOperator expands a combined operator group. Same-kind
// combinations stay one helper unless named; cross-kind combinations always
// split into two helpers of the respective kinds. Annotations forward by
// precedence: a resource reaches every part, a time or message trigger only
// the explicit task (or the sole helper when the group is unnamed).
func handleCombinedOperator(net *pnml.Net, w *operatorWrapper) {
	incoming := w.uniqueInArcs()
	outgoing := w.uniqueOutArcs()
	ts := w.toolspecific()
	w.removeFromNet(net)

	var first, second pnml.Node
	if w.t == pnml.AndJoinXorSplit || w.t == pnml.XorJoinAndSplit {
		if w.t == pnml.XorJoinAndSplit {
			first = pnml.NewXORHelper("XOR"+w.id, w.name)
			second = pnml.NewANDHelper("AND"+w.id, w.name)
		} else {
			first = pnml.NewANDHelper("AND"+w.id, w.name)
			second = pnml.NewXORHelper("XOR"+w.id, w.name)
		}
		second.Element().SetCopyOfToolspecific(ts)
		if ts.IsWorkflowResource() {
			first.Element().SetCopyOfToolspecific(ts)
		}
	} else {
		gwType := "AND"
		if w.t == pnml.XorJoinSplit {
			first = pnml.NewXORHelper(w.id, w.name)
			gwType = "XOR"
		} else {
			first = pnml.NewANDHelper(w.id, w.name)
		}
		first.Element().SetCopyOfToolspecific(ts)

		if w.name != "" {
			if w.t == pnml.XorJoinSplit {
				second = pnml.NewXORHelper("OUT"+gwType+w.id, w.name)
			} else {
				second = pnml.NewANDHelper("OUT"+gwType+w.id, w.name)
			}
			second.Element().SetCopyOfToolspecific(ts)
			if ts.IsWorkflowEventTrigger() {
				first.Element().Toolspecific = nil
			}
			first.Element().ID = "IN" + gwType + w.id
		}
	}
	if second == nil {
		second = first
	}

	net.AddNode(first)
	net.AddNode(second)
	net.ConnectToElement(first, incoming)
	net.ConnectFromElement(second, outgoing)

	if w.name == "" {
		if first != second {
			net.AddArcFromID(first.GetID(), second.GetID())
		}
		return
	}

	first.Element().SetName("")
	second.Element().SetName("")

	explicit := pnml.NewTransition(ids.ExplicitTransition(w.id), w.name)
	explicit.SetCopyOfToolspecific(ts)
	if ts.IsWorkflowEventTrigger() {
		first.Element().Toolspecific = nil
		second.Element().Toolspecific = nil
	}
	net.AddNode(explicit)
	net.AddArc(first, explicit)
	net.AddArc(explicit, second)
}

// expandWorkflowOperators replaces every operator group with gateway helper
// nodes the transform pass can translate directly.
func expandWorkflowOperators(net *pnml.Net) {
	for _, w := range findWorkflowOperators(net) {
		switch w.t {
		case pnml.AndJoin, pnml.AndSplit, pnml.XorJoin, pnml.XorSplit:
			handleSingleOperator(net, w)
		case pnml.AndJoinXorSplit, pnml.XorJoinAndSplit, pnml.XorJoinSplit, pnml.AndJoinSplit:
			handleCombinedOperator(net, w)
		default:
			panic(errs.Internalf("unknown workflow operator type %d", w.t))
		}
	}
}
