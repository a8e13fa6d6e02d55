package transform

import (
	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/log"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// transformProcessToNet is the single-pass BPMN to Petri-net mapping. In
// workflow mode gateways, subprocesses and intermediate catch events are
// delegated to the workflow sub-handlers; otherwise every node maps directly
// by type and degree.
func transformProcessToNet(p *bpmn.Process, workflow bool, organization string) (*pnml.Net, error) {
	net := pnml.NewNet(p.GetID())
	log.Debug("transforming process %s (workflow=%t)", p.GetID(), workflow)

	var workflowNodes []bpmn.Node
	var normalNodes []bpmn.Node
	for _, node := range p.AllNodes() {
		if workflow && isWorkflowElement(node) {
			workflowNodes = append(workflowNodes, node)
			continue
		}
		normalNodes = append(normalNodes, node)
	}

	for _, node := range normalNodes {
		base := node.Base()
		switch node.(type) {
		case *bpmn.Task, *bpmn.UserTask, *bpmn.ServiceTask, *bpmn.AndGateway:
			name := ""
			if base.Name != "" || base.InDegree() > 1 || base.OutDegree() > 1 {
				name = base.Name
			}
			t := net.AddTransition(pnml.NewTransition(base.ID, name))
			if workflow {
				if lane, ok := p.ParticipantMapping[base.ID]; ok {
					if _, isUser := node.(*bpmn.UserTask); isUser {
						t.MarkAsWorkflowResource(lane, organization)
					}
				}
			}
		case *bpmn.IntermediateCatchEvent:
			// only reachable in the standard net flavor, which carries no
			// trigger annotations
			net.AddTransition(pnml.NewTransition(base.ID, base.Name))
		case *bpmn.OrGateway, *bpmn.XorGateway, *bpmn.StartEvent, *bpmn.EndEvent, *bpmn.GenericNode:
			net.AddPlace(pnml.NewPlace(base.ID))
		default:
			panic(errs.Internalf("bpmn node %T not supported by the transform pass", node))
		}
	}

	if workflow && len(workflowNodes) > 0 {
		if err := handleWorkflowElements(p, net, workflowNodes, organization); err != nil {
			return nil, err
		}
	}

	for _, flow := range append([]*bpmn.Flow(nil), p.Flows...) {
		source := net.GetNodeOrNil(flow.SourceRef)
		target := net.GetNodeOrNil(flow.TargetRef)
		if source == nil || target == nil {
			continue
		}
		net.AddArcHandleSameType(source, target)
	}
	return net, nil
}

func isWorkflowElement(n bpmn.Node) bool {
	switch n.(type) {
	case *bpmn.XorGateway, *bpmn.AndGateway, *bpmn.Process, *bpmn.IntermediateCatchEvent:
		return true
	}
	return false
}
