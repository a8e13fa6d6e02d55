package transform

import (
	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
)

// preprocessFunc is one structure-rewriting pass over a single process.
type preprocessFunc func(*bpmn.Process) error

// applyBPMNPreprocessing runs the passes bottom-up: subprocesses first, then
// the process itself.
func applyBPMNPreprocessing(p *bpmn.Process, funcs ...preprocessFunc) error {
	for _, sub := range p.Subprocesses {
		if err := applyBPMNPreprocessing(sub, funcs...); err != nil {
			return err
		}
	}
	for _, f := range funcs {
		if err := f(p); err != nil {
			return err
		}
	}
	return nil
}

// extendSubprocess recursively inlines every subprocess into its parent:
// internal nodes and flows are promoted, the parent's external flows are
// reconnected to the old internal start and end events.
func extendSubprocess(parent *bpmn.Process) error {
	subprocesses := append([]*bpmn.Process(nil), parent.Subprocesses...)
	for _, sub := range subprocesses {
		starts := sub.FindStartEvents()
		ends := sub.FindEndEvents()
		if len(starts) != 1 || len(ends) != 1 {
			return errs.WrongSubprocessDegree()
		}
		start, end := starts[0], ends[0]

		if len(sub.Subprocesses) > 0 {
			if err := extendSubprocess(sub); err != nil {
				return err
			}
		}

		incoming := parent.GetIncoming(sub.GetID())
		outgoing := parent.GetOutgoing(sub.GetID())
		savedIncoming := make([]*bpmn.Flow, len(incoming))
		savedOutgoing := make([]*bpmn.Flow, len(outgoing))
		for i, f := range incoming {
			c := *f
			savedIncoming[i] = &c
		}
		for i, f := range outgoing {
			c := *f
			savedOutgoing[i] = &c
		}
		for _, f := range append(incoming, outgoing...) {
			parent.RemoveFlow(f)
		}
		parent.RemoveNode(sub)

		parent.AddNodes(sub.AllNodes()...)
		for _, f := range sub.Flows {
			parent.AddConstructedFlow(f)
		}
		for _, f := range savedIncoming {
			parent.AddFlowNamed(parent.GetNode(f.SourceRef), start, f.ID, f.Name)
		}
		for _, f := range savedOutgoing {
			parent.AddFlowNamed(end, parent.GetNode(f.TargetRef), f.ID, f.Name)
		}
	}
	return nil
}

func gatewayNodes(p *bpmn.Process) []bpmn.Node {
	var gateways []bpmn.Node
	for _, n := range p.AllNodes() {
		if bpmn.IsGateway(n) {
			gateways = append(gateways, n)
		}
	}
	return gateways
}

// preprocessGateways removes degenerate gateways (in- and out-degree both at
// most one), keeping the gateway's id as the id of the reconnecting flow, and
// pads every remaining gateway-to-gateway edge with a placeholder node.
func preprocessGateways(p *bpmn.Process) error {
	gateways := gatewayNodes(p)
	if len(gateways) == 0 {
		return nil
	}

	var remaining []bpmn.Node
	for _, gw := range gateways {
		if gw.Base().InDegree() > 1 || gw.Base().OutDegree() > 1 {
			remaining = append(remaining, gw)
			continue
		}
		sourceID, targetID := p.RemoveNodeWithConnectingFlows(gw)
		if sourceID != "" && targetID != "" {
			p.AddFlowWithID(p.GetNode(sourceID), p.GetNode(targetID), gw.GetID())
		}
	}

	remainingIDs := map[string]bool{}
	for _, gw := range remaining {
		remainingIDs[gw.GetID()] = true
	}
	for _, gw := range remaining {
		for _, outFlow := range p.GetOutgoing(gw.GetID()) {
			target := p.GetNode(outFlow.TargetRef)
			if !remainingIDs[target.GetID()] {
				continue
			}
			p.RemoveFlow(outFlow)
			link := bpmn.NewGenericNode(gw.GetID() + target.GetID())
			p.AddNode(link)
			p.AddFlow(gw, link)
			p.AddFlow(link, target)
		}
	}
	return nil
}

// isTargetWfTransition reports whether the node maps to a Petri-net
// transition consumed by a workflow sub-handler.
func isTargetWfTransition(n bpmn.Node) bool {
	switch n.(type) {
	case *bpmn.Process, *bpmn.XorGateway, *bpmn.AndGateway, *bpmn.OrGateway,
		*bpmn.IntermediateCatchEvent:
		return true
	}
	return false
}

// insertPlaceholdersBetweenTransitionNodes pads every edge between two nodes
// that both satisfy isTargetWfTransition with a placeholder node, which the
// transform phase turns into a place. Edges between plain tasks are left to
// the arc pass, which inserts a silent place there.
func insertPlaceholdersBetweenTransitionNodes(p *bpmn.Process) error {
	for _, node := range p.AllNodes() {
		if !isTargetWfTransition(node) {
			continue
		}
		for _, outFlow := range p.GetOutgoing(node.GetID()) {
			target := p.GetNode(outFlow.TargetRef)
			if !isTargetWfTransition(target) {
				continue
			}
			p.RemoveFlow(outFlow)
			link := bpmn.NewGenericNode(node.GetID() + target.GetID())
			p.AddNode(link)
			p.AddFlow(node, link)
			p.AddFlow(link, target)
		}
	}
	return nil
}
