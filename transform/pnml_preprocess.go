package transform

import (
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/ids"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// netPreprocessFunc is one structure-rewriting pass over a single net.
type netPreprocessFunc func(*pnml.Net)

// applyPNPreprocessing runs the passes bottom-up: pages first, then the net
// itself.
func applyPNPreprocessing(net *pnml.Net, funcs ...netPreprocessFunc) {
	for _, page := range net.Pages {
		if page.Net != nil {
			applyPNPreprocessing(page.Net, funcs...)
		}
	}
	for _, f := range funcs {
		f(net)
	}
}

// addPlacesAtDanglingTransitions caps every transition without incoming arcs
// with a fresh source place and every transition without outgoing arcs with a
// fresh sink place.
func addPlacesAtDanglingTransitions(net *pnml.Net) {
	var sources, sinks []*pnml.Transition
	for _, t := range net.Transitions {
		if net.InDegree(t.GetID()) == 0 {
			sources = append(sources, t)
		}
		if net.OutDegree(t.GetID()) == 0 {
			sinks = append(sinks, t)
		}
	}
	for _, source := range sources {
		place := net.AddPlace(pnml.NewPlace(ids.Source(source.GetID())))
		net.AddArc(place, source)
	}
	for _, sink := range sinks {
		place := net.AddPlace(pnml.NewPlace(ids.Sink(sink.GetID())))
		net.AddArc(sink, place)
	}
}

// createExplicitTask splits the name of an annotated transition off into an
// explicit task, forwarding the toolspecific annotations. A time or message
// trigger moves entirely to the explicit task; a resource annotation stays on
// both so it also reaches the BPMN lanes.
func createExplicitTask(gateway *pnml.Transition) *pnml.Transition {
	explicit := pnml.NewTransition(ids.ExplicitTransition(gateway.GetID()), gateway.GetName())
	explicit.SetCopyOfToolspecific(gateway.Toolspecific)
	if gateway.IsWorkflowEventTrigger() {
		gateway.Toolspecific = nil
	}
	return explicit
}

func splitNamedSplit(net *pnml.Net, gateway *pnml.Transition) {
	incoming := net.GetIncomingAndRemove(gateway)
	explicit := createExplicitTask(gateway)
	net.AddNode(explicit)
	net.AddArcHandleSameType(explicit, gateway)
	net.ConnectToElement(explicit, incoming)
}

func splitNamedJoin(net *pnml.Net, gateway *pnml.Transition) {
	outgoing := net.GetOutgoingAndRemove(gateway)
	explicit := createExplicitTask(gateway)
	net.AddNode(explicit)
	net.AddArcHandleSameType(gateway, explicit)
	net.ConnectFromElement(explicit, outgoing)
}

func splitNamedJoinSplit(net *pnml.Net, gateway *pnml.Transition) {
	outgoing := net.GetOutgoingAndRemove(gateway)
	explicit := createExplicitTask(gateway)
	endGateway := pnml.NewTransition("OUTAND"+gateway.GetID(), "")
	if explicit.IsWorkflowResource() {
		endGateway.SetCopyOfToolspecific(explicit.Toolspecific)
	}
	net.AddNode(explicit)
	net.AddNode(endGateway)
	net.AddArcHandleSameType(gateway, explicit)
	net.AddArcHandleSameType(explicit, endGateway)
	net.ConnectFromElement(endGateway, outgoing)
}

// splitNamedANDTransitions splits every named transition acting as an AND
// gateway (in- or out-degree above one) into a silent gateway part and an
// explicit task carrying the name.
func splitNamedANDTransitions(net *pnml.Net) {
	var gateways []*pnml.Transition
	for _, t := range net.Transitions {
		if (net.InDegree(t.GetID()) > 1 || net.OutDegree(t.GetID()) > 1) && t.GetName() != "" {
			gateways = append(gateways, t)
		}
	}
	for _, gateway := range gateways {
		inDegree := net.InDegree(gateway.GetID())
		outDegree := net.OutDegree(gateway.GetID())
		switch {
		case inDegree > 1 && outDegree > 1:
			splitNamedJoinSplit(net, gateway)
		case inDegree > 1:
			splitNamedJoin(net, gateway)
		case outDegree > 1:
			splitNamedSplit(net, gateway)
		default:
			panic(errs.Internalf("transition %q is not a gateway", gateway.GetID()))
		}
		gateway.SetName("")
	}
}

// createTriggerHelper builds the helper node standing in for the BPMN
// intermediate catch event of a time or message trigger.
func createTriggerHelper(trigger pnml.Node) pnml.Node {
	el := trigger.Element()
	switch {
	case el.IsWorkflowMessage():
		return pnml.NewMessageHelper(ids.Trigger(el.GetID()), el.GetName())
	case el.IsWorkflowTime():
		return pnml.NewTimeHelper(ids.Trigger(el.GetID()), el.GetName())
	}
	panic(errs.Internalf("node %q carries no event trigger", el.GetID()))
}

func splitTriggerBefore(net *pnml.Net, trigger pnml.Node) {
	incoming := net.GetIncomingAndRemove(trigger)
	helper := createTriggerHelper(trigger)
	net.AddNode(helper)
	net.AddArcHandleSameType(helper, trigger)
	net.ConnectToElement(helper, incoming)
}

func splitTriggerAfter(net *pnml.Net, trigger pnml.Node) {
	outgoing := net.GetOutgoingAndRemove(trigger)
	helper := createTriggerHelper(trigger)
	net.AddNode(helper)
	net.AddArcHandleSameType(trigger, helper)
	net.ConnectFromElement(helper, outgoing)
}

func splitTriggerBetween(net *pnml.Net, trigger pnml.Node) {
	outgoing := net.GetOutgoingAndRemove(trigger)
	helper := createTriggerHelper(trigger)
	endGateway := pnml.NewTransition("OUTAND"+trigger.GetID(), "")
	net.AddNode(helper)
	net.AddNode(endGateway)
	net.AddArcHandleSameType(trigger, helper)
	net.AddArcHandleSameType(helper, endGateway)
	net.ConnectFromElement(endGateway, outgoing)
}

// splitEventTriggers externalizes every time and message trigger into a
// dedicated trigger helper node; the annotated node keeps its structural
// role.
func splitEventTriggers(net *pnml.Net) {
	var triggers []pnml.Node
	for _, node := range net.AllNodes() {
		if node.Element().IsWorkflowEventTrigger() {
			triggers = append(triggers, node)
		}
	}
	for _, trigger := range triggers {
		inDegree := net.InDegree(trigger.GetID())
		outDegree := net.OutDegree(trigger.GetID())
		switch {
		case inDegree > 1 && outDegree > 1:
			splitTriggerBetween(net, trigger)
		case inDegree > 1:
			splitTriggerAfter(net, trigger)
		case outDegree > 1 || (inDegree == 1 && outDegree == 1):
			splitTriggerBefore(net, trigger)
		default:
			panic(errs.Internalf("trigger %q has no arcs", trigger.GetID()))
		}
	}
}
