package transform

import (
	"sort"
	"strconv"

	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/ids"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// handleWorkflowElements dispatches the workflow-specific BPMN nodes to the
// trigger, subprocess and gateway sub-handlers. Triggers and subprocesses
// emit their transitions first so the gateway handler finds every neighbor
// already present in the net.
func handleWorkflowElements(p *bpmn.Process, net *pnml.Net, nodes []bpmn.Node, organization string) error {
	var triggers []*bpmn.IntermediateCatchEvent
	var subprocesses []*bpmn.Process
	var gateways []bpmn.Node
	for _, node := range nodes {
		switch v := node.(type) {
		case *bpmn.IntermediateCatchEvent:
			triggers = append(triggers, v)
		case *bpmn.Process:
			subprocesses = append(subprocesses, v)
		default:
			gateways = append(gateways, node)
		}
	}
	if err := handleTriggers(net, triggers); err != nil {
		return err
	}
	if err := handleSubprocesses(p, net, subprocesses, organization); err != nil {
		return err
	}
	return handleGateways(p, net, gateways)
}

// handleTriggers emits every intermediate catch event as a transition marked
// with the matching workflow trigger.
func handleTriggers(net *pnml.Net, triggers []*bpmn.IntermediateCatchEvent) error {
	for _, trigger := range triggers {
		t := pnml.NewTransition(trigger.GetID(), trigger.GetName())
		switch {
		case trigger.IsTime():
			t.MarkAsWorkflowTime()
		case trigger.IsMessage():
			t.MarkAsWorkflowMessage()
		default:
			return errs.UnknownIntermediateCatchEvent()
		}
		net.AddTransition(t)
	}
	return nil
}

// createOperatorHelper emits one workflow operator helper transition of the
// given branching type, numbered within its operator group.
func createOperatorHelper(net *pnml.Net, id, name string, i int, t pnml.WorkflowBranchingType) *pnml.Transition {
	helper := net.AddTransition(pnml.NewTransition(id+"_op_"+strconv.Itoa(i), name))
	helper.MarkAsWorkflowOperator(t, id)
	return helper
}

func addWfXorSplit(net *pnml.Net, in pnml.Node, outs []pnml.Node, id, name string) {
	for i, out := range outs {
		t := createOperatorHelper(net, id, name, i+1, pnml.XorSplit)
		net.AddArcHandleSameType(in, t)
		net.AddArcHandleSameType(t, out)
	}
}

func addWfXorJoin(net *pnml.Net, out pnml.Node, ins []pnml.Node, id, name string) {
	for i, in := range ins {
		t := createOperatorHelper(net, id, name, i+1, pnml.XorJoin)
		net.AddArcHandleSameType(in, t)
		net.AddArcHandleSameType(t, out)
	}
}

func addWfAndSplit(net *pnml.Net, in pnml.Node, outs []pnml.Node, id, name string) {
	t := createOperatorHelper(net, id, name, 1, pnml.AndSplit)
	net.AddArcHandleSameType(in, t)
	for _, out := range outs {
		net.AddArcHandleSameType(t, out)
	}
}

func addWfAndJoin(net *pnml.Net, out pnml.Node, ins []pnml.Node, id, name string) {
	t := createOperatorHelper(net, id, name, 1, pnml.AndJoin)
	net.AddArcHandleSameType(t, out)
	for _, in := range ins {
		net.AddArcHandleSameType(in, t)
	}
}

// addWfXorSplitJoin emits the combined XOR shape: one helper per source and
// per target, numbered continuously, around a central place.
func addWfXorSplitJoin(net *pnml.Net, ins, outs []pnml.Node, id, name string) {
	center := net.AddPlace(pnml.NewPlace("P_CENTER_" + id))
	center.MarkAsWorkflowOperator(pnml.XorJoinSplit, id)

	for i, in := range ins {
		t := createOperatorHelper(net, id, name, i+1, pnml.XorJoinSplit)
		net.AddArcHandleSameType(in, t)
		net.AddArcHandleSameType(t, center)
	}
	for i, out := range outs {
		t := createOperatorHelper(net, id, name, i+1+len(ins), pnml.XorJoinSplit)
		net.AddArcHandleSameType(t, out)
		net.AddArcHandleSameType(center, t)
	}
}

func addWfAndSplitJoin(net *pnml.Net, ins, outs []pnml.Node, id, name string) {
	t := createOperatorHelper(net, id, name, 1, pnml.AndJoinSplit)
	for _, in := range ins {
		net.AddArcHandleSameType(in, t)
	}
	for _, out := range outs {
		net.AddArcHandleSameType(t, out)
	}
}

// handleGateways emits every workflow gateway as an operator group.
func handleGateways(p *bpmn.Process, net *pnml.Net, gateways []bpmn.Node) error {
	for _, gateway := range gateways {
		handleGateway(p, net, gateway)
	}
	return nil
}

// handleGateway removes the gateway's flows and re-emits the gateway as
// operator helper transitions over its neighbors, sorted by id.
func handleGateway(p *bpmn.Process, net *pnml.Net, node bpmn.Node) {
	inDegree, outDegree := node.Base().InDegree(), node.Base().OutDegree()
	inFlows := p.GetIncoming(node.GetID())
	outFlows := p.GetOutgoing(node.GetID())

	sourceIDs := make([]string, 0, len(inFlows))
	for _, f := range inFlows {
		sourceIDs = append(sourceIDs, f.SourceRef)
	}
	targetIDs := make([]string, 0, len(outFlows))
	for _, f := range outFlows {
		targetIDs = append(targetIDs, f.TargetRef)
	}
	for _, f := range append(inFlows, outFlows...) {
		p.RemoveFlow(f)
	}

	sort.Strings(sourceIDs)
	sort.Strings(targetIDs)
	sources := make([]pnml.Node, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		sources = append(sources, net.GetNode(id))
	}
	targets := make([]pnml.Node, 0, len(targetIDs))
	for _, id := range targetIDs {
		targets = append(targets, net.GetNode(id))
	}

	isXor := false
	if _, ok := node.(*bpmn.XorGateway); ok {
		isXor = true
	}

	switch {
	case inDegree == 1:
		if isXor {
			addWfXorSplit(net, sources[0], targets, node.GetID(), node.GetName())
		} else {
			addWfAndSplit(net, sources[0], targets, node.GetID(), node.GetName())
		}
	case outDegree == 1:
		if isXor {
			addWfXorJoin(net, targets[0], sources, node.GetID(), node.GetName())
		} else {
			addWfAndJoin(net, targets[0], sources, node.GetID(), node.GetName())
		}
	default:
		if isXor {
			addWfXorSplitJoin(net, sources, targets, node.GetID(), node.GetName())
		} else {
			addWfAndSplitJoin(net, sources, targets, node.GetID(), node.GetName())
		}
	}
}

// handleSubprocesses emits every subprocess as a transition marked as a
// workflow subprocess and recursively transforms its body into a page. The
// page's inner start and end places take the ids of the outer neighbors; if
// an outer neighbor is a transition, the silent place that will be inserted
// between them owns the id instead.
func handleSubprocesses(p *bpmn.Process, net *pnml.Net, subprocesses []*bpmn.Process, organization string) error {
	for _, sub := range subprocesses {
		if sub.InDegree() != 1 || sub.OutDegree() != 1 {
			return errs.WrongSubprocessDegree()
		}

		subTransition := pnml.NewTransition(sub.GetID(), sub.GetName())
		subTransition.MarkAsWorkflowSubprocess()
		net.AddTransition(subTransition)

		outerInID := p.GetIncoming(sub.GetID())[0].SourceRef
		outerOutID := p.GetOutgoing(sub.GetID())[0].TargetRef
		if _, ok := net.GetNode(outerInID).(*pnml.Transition); ok {
			outerInID = ids.SilentNode(outerInID, subTransition.GetID())
		}
		if _, ok := net.GetNode(outerOutID).(*pnml.Transition); ok {
			outerOutID = ids.SilentNode(subTransition.GetID(), outerOutID)
		}

		starts := sub.FindStartEvents()
		ends := sub.FindEndEvents()
		if len(starts) != 1 || len(ends) != 1 {
			return errs.WrongSubprocessDegree()
		}
		sub.ChangeNodeID(starts[0], outerInID)
		sub.ChangeNodeID(ends[0], outerOutID)

		innerNet, err := transformProcessToNet(sub, true, organization)
		if err != nil {
			return err
		}
		innerNet.ID = ""
		net.AddPage(&pnml.Page{ID: sub.GetID(), Net: innerNet})
	}
	return nil
}
