package transform

import (
	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/ids"
	"github.com/woped/bpmn-pnml-transformer/log"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// transformNetToBPMN maps one preprocessed net to a BPMN process, recursing
// into pages for workflow subprocesses, and runs the postprocessing over the
// result.
func transformNetToBPMN(net *pnml.Net) (*bpmn.Definitions, error) {
	netID := net.ID
	if netID == "" {
		netID = "new_net"
	}
	d := bpmn.NewDefinitions(netID)
	p := d.Process
	log.Debug("transforming net %s", netID)

	var subprocessTransitions []*pnml.Transition
	subprocessIDs := map[string]bool{}
	for _, t := range net.Transitions {
		if t.IsWorkflowSubprocess() {
			subprocessTransitions = append(subprocessTransitions, t)
			subprocessIDs[t.GetID()] = true
		}
	}

	for _, place := range net.Places {
		id := place.GetID()
		switch {
		case net.InDegree(id) == 0:
			p.AddNode(bpmn.NewStartEvent(id))
		case net.OutDegree(id) == 0:
			p.AddNode(bpmn.NewEndEvent(id))
		default:
			p.AddNode(bpmn.NewXorGateway(id, ""))
		}
	}

	for _, t := range net.Transitions {
		id := t.GetID()
		if subprocessIDs[id] {
			continue
		}
		inDegree, outDegree := net.InDegree(id), net.OutDegree(id)
		switch {
		case t.IsWorkflowResource() && inDegree <= 1 && outDegree <= 1:
			p.AddNode(bpmn.NewUserTask(id, t.GetName()))
		case inDegree == 0:
			p.AddNode(bpmn.NewStartEvent(id))
		case outDegree == 0:
			p.AddNode(bpmn.NewEndEvent(id))
		case inDegree == 1 && outDegree == 1:
			p.AddNode(bpmn.NewTask(id, t.GetName()))
		default:
			p.AddNode(bpmn.NewAndGateway(id, t.GetName()))
		}
	}

	for _, helper := range net.Helpers() {
		el := helper.Element()
		switch helper.(type) {
		case *pnml.XORHelper:
			p.AddNode(bpmn.NewXorGateway(el.GetID(), el.GetName()))
		case *pnml.ANDHelper:
			p.AddNode(bpmn.NewAndGateway(el.GetID(), el.GetName()))
		case *pnml.TimeHelper:
			p.AddNode(bpmn.NewTimeCatchEvent(el.GetID()))
		case *pnml.MessageHelper:
			p.AddNode(bpmn.NewMessageCatchEvent(el.GetID()))
		default:
			panic(errs.Internalf("unknown helper node %T", helper))
		}
	}

	if err := liftWorkflowSubprocesses(net, p, subprocessTransitions); err != nil {
		return nil, err
	}

	for _, arc := range net.Arcs {
		if !net.HasNode(arc.Source) || !net.HasNode(arc.Target) {
			continue
		}
		p.AddFlowWithID(p.GetNode(arc.Source), p.GetNode(arc.Target), arc.ID)
	}

	removeSilentTasks(p)
	removeUnnecessaryGateways(p)

	return d, nil
}

// liftWorkflowSubprocesses embeds the page behind every subprocess-marked
// transition as a nested BPMN process. The page's source and sink must carry
// the outer neighbors' ids and be a true source and sink.
func liftWorkflowSubprocesses(net *pnml.Net, p *bpmn.Process, transitions []*pnml.Transition) error {
	for _, subTransition := range transitions {
		sbID := subTransition.GetID()
		page := net.GetPage(sbID)

		incoming := net.GetIncoming(sbID)
		outgoing := net.GetOutgoing(sbID)
		if len(incoming) == 0 || len(outgoing) == 0 {
			panic(errs.Internalf("subprocess transition %q is not embedded in the net", sbID))
		}
		outerSourceID := incoming[0].Source
		outerSinkID := outgoing[0].Target

		innerSource := page.Net.GetNode(outerSourceID)
		innerSink := page.Net.GetNode(outerSinkID)
		if page.Net.InDegree(innerSource.GetID()) > 0 || page.Net.OutDegree(innerSink.GetID()) > 0 {
			return errs.SubprocessWrongInnerSourceSinkDegree()
		}

		innerDefinitions, err := transformNetToBPMN(page.Net)
		if err != nil {
			return err
		}
		inner := innerDefinitions.Process
		inner.Base().ID = sbID
		inner.Base().Name = subTransition.GetName()
		inner.IsExecutable = nil
		p.AddNode(inner)
	}
	return nil
}

// removeSilentTasks deletes every unnamed task, reconnecting its unique
// predecessor to its unique successor.
func removeSilentTasks(p *bpmn.Process) {
	for _, task := range append([]*bpmn.Task(nil), p.Tasks...) {
		if task.GetName() != "" {
			continue
		}
		sourceID, targetID := p.RemoveNodeWithConnectingFlows(task)
		if sourceID != "" && targetID != "" {
			p.AddFlow(p.GetNode(sourceID), p.GetNode(targetID))
		}
	}
}

// removeUnnecessaryGateways iteratively deletes every gateway with in- and
// out-degree one, reconnecting both ends, unless the reconnection would
// create a duplicate flow id.
func removeUnnecessaryGateways(p *bpmn.Process) {
	for changed := true; changed; {
		changed = false
		for _, gw := range gatewayNodes(p) {
			base := gw.Base()
			if base.InDegree() != 1 || base.OutDegree() != 1 {
				continue
			}
			if base.InDegree() == 1 && base.OutDegree() == 1 {
				sourceID := p.GetIncoming(gw.GetID())[0].SourceRef
				targetID := p.GetOutgoing(gw.GetID())[0].TargetRef
				if p.HasFlow(ids.Arc(sourceID, targetID)) {
					continue
				}
			}
			sourceID, targetID := p.RemoveNodeWithConnectingFlows(gw)
			if sourceID != "" && targetID != "" {
				p.AddFlow(p.GetNode(sourceID), p.GetNode(targetID))
			}
			changed = true
		}
	}
}
