package transform

import (
	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/ids"
)

// inclusiveGatewayBridge pairs an OR-split with its matching OR-join along
// one branch.
type inclusiveGatewayBridge struct {
	split        *bpmn.OrGateway
	join         *bpmn.OrGateway
	flowOutSplit *bpmn.Flow
	flowInJoin   *bpmn.Flow
}

// parallelGatewayBridge is the same pairing after the OR gateways were
// replaced with AND gateways.
type parallelGatewayBridge struct {
	split        *bpmn.AndGateway
	join         *bpmn.AndGateway
	flowOutSplit *bpmn.Flow
	flowInJoin   *bpmn.Flow
}

// traverseMatchingGw walks forward from a flow looking for the join matching
// the split at the bottom of the stack. Arcs are never revisited, so a cycle
// simply exhausts the search.
func traverseMatchingGw(
	p *bpmn.Process,
	stack *[]*bpmn.OrGateway,
	splitIDs, joinIDs map[string]bool,
	visited map[string]bool,
	flowID string,
) (string, *bpmn.OrGateway, bool) {
	if visited[flowID] {
		return "", nil, false
	}
	visited[flowID] = true

	target := p.GetFlowTarget(flowID)
	if joinIDs[target.GetID()] {
		if len(*stack) == 1 {
			return flowID, target.(*bpmn.OrGateway), true
		}
		*stack = (*stack)[:len(*stack)-1]
	}
	if splitIDs[target.GetID()] {
		*stack = append(*stack, target.(*bpmn.OrGateway))
	}

	for _, outID := range append([]string(nil), target.Base().Outgoing...) {
		if id, join, ok := traverseMatchingGw(p, stack, splitIDs, joinIDs, visited, outID); ok {
			return id, join, true
		}
	}
	return "", nil, false
}

// findMatchingGateways matches every OR-split branch with its join.
func findMatchingGateways(p *bpmn.Process, inclusiveGateways []*bpmn.OrGateway) ([]inclusiveGatewayBridge, error) {
	var matches []inclusiveGatewayBridge
	var splits, joins []*bpmn.OrGateway
	for _, gw := range inclusiveGateways {
		if gw.InDegree() > 1 {
			joins = append(joins, gw)
		}
		if gw.OutDegree() > 1 {
			splits = append(splits, gw)
		}
	}
	splitIDs := map[string]bool{}
	for _, gw := range splits {
		splitIDs[gw.GetID()] = true
	}
	joinIDs := map[string]bool{}
	for _, gw := range joins {
		joinIDs[gw.GetID()] = true
	}
	for _, split := range splits {
		for _, outFlowID := range append([]string(nil), split.Outgoing...) {
			stack := []*bpmn.OrGateway{split}
			inFlowID, join, ok := traverseMatchingGw(p, &stack, splitIDs, joinIDs, map[string]bool{}, outFlowID)
			if !ok {
				return nil, errs.ORGatewayDetectionIssue()
			}
			matches = append(matches, inclusiveGatewayBridge{
				split:        split,
				join:         join,
				flowOutSplit: p.GetFlow(outFlowID),
				flowInJoin:   p.GetFlow(inFlowID),
			})
		}
	}
	return matches, nil
}

// replaceInclusiveToParallel swaps one OR gateway for an AND gateway,
// re-creating its flows under prefixed ids.
func replaceInclusiveToParallel(p *bpmn.Process, gw *bpmn.OrGateway) (*bpmn.AndGateway, map[string]*bpmn.Flow) {
	flowMap := map[string]*bpmn.Flow{}
	parallel := bpmn.NewAndGateway("OR"+gw.GetID(), "")
	p.AddNode(parallel)
	inFlows := p.GetIncoming(gw.GetID())
	outFlows := p.GetOutgoing(gw.GetID())
	for _, f := range inFlows {
		p.RemoveFlow(f)
		flowMap[f.ID] = p.AddFlowNamed(p.GetNode(f.SourceRef), parallel, "OR_"+f.ID, f.Name)
	}
	for _, f := range outFlows {
		p.RemoveFlow(f)
		flowMap[f.ID] = p.AddFlowNamed(parallel, p.GetNode(f.TargetRef), "OR_"+f.ID, f.Name)
	}
	p.RemoveNode(gw)
	return parallel, flowMap
}

// inclusiveGwsToParallelGws replaces the OR gateways of every bridge with AND
// gateways, carrying the bridge over to the new flows.
func inclusiveGwsToParallelGws(p *bpmn.Process, bridges []inclusiveGatewayBridge) []parallelGatewayBridge {
	gwMap := map[string]*bpmn.AndGateway{}
	flowMap := map[string]*bpmn.Flow{}
	var out []parallelGatewayBridge
	for _, bridge := range bridges {
		if _, ok := gwMap[bridge.split.GetID()]; !ok {
			newSplit, newFlows := replaceInclusiveToParallel(p, bridge.split)
			for k, v := range newFlows {
				flowMap[k] = v
			}
			gwMap[bridge.split.GetID()] = newSplit
		}
		if _, ok := gwMap[bridge.join.GetID()]; !ok {
			newJoin, newFlows := replaceInclusiveToParallel(p, bridge.join)
			for k, v := range newFlows {
				flowMap[k] = v
			}
			gwMap[bridge.join.GetID()] = newJoin
		}
		out = append(out, parallelGatewayBridge{
			split:        gwMap[bridge.split.GetID()],
			join:         gwMap[bridge.join.GetID()],
			flowOutSplit: flowMap[bridge.flowOutSplit.ID],
			flowInJoin:   flowMap[bridge.flowInJoin.ID],
		})
	}
	return out
}

// addXorsAndActivities wraps one AND bridge branch into an XOR-split, a
// silent task and an XOR-join, so execution may elect to skip the branch.
func addXorsAndActivities(p *bpmn.Process, bridge parallelGatewayBridge) {
	xorSplit := bpmn.NewXorGateway(bridge.split.GetID()+bridge.flowOutSplit.TargetRef, "")
	xorJoin := bpmn.NewXorGateway(bridge.flowInJoin.SourceRef+bridge.join.GetID(), "")
	silent := bpmn.NewTask(xorSplit.GetID()+xorJoin.GetID(), "")
	p.AddNodes(xorSplit, xorJoin, silent)

	flowOutToXor := &bpmn.Flow{
		ID:        ids.Arc(xorSplit.GetID(), bridge.flowOutSplit.TargetRef),
		Name:      bridge.flowOutSplit.Name,
		SourceRef: xorSplit.GetID(),
		TargetRef: bridge.flowOutSplit.TargetRef,
	}
	flowInToXor := &bpmn.Flow{
		ID:        ids.Arc(bridge.flowInJoin.SourceRef, xorJoin.GetID()),
		Name:      bridge.flowInJoin.Name,
		SourceRef: bridge.flowInJoin.SourceRef,
		TargetRef: xorJoin.GetID(),
	}

	p.RemoveFlow(bridge.flowOutSplit)
	p.RemoveFlow(bridge.flowInJoin)
	p.AddConstructedFlow(flowOutToXor)
	p.AddConstructedFlow(flowInToXor)
	p.AddFlowWithID(bridge.split, xorSplit, bridge.split.GetID()+xorSplit.GetID())
	p.AddFlowWithID(xorJoin, bridge.join, xorJoin.GetID()+bridge.join.GetID())

	p.AddFlowWithID(xorSplit, silent, xorSplit.GetID()+silent.GetID())
	p.AddFlowWithID(silent, xorJoin, silent.GetID()+xorJoin.GetID())
}

// replaceInclusiveGateways rewrites every OR gateway pair into an AND pair
// enclosing per-branch XOR bypasses with an empty alternative.
func replaceInclusiveGateways(p *bpmn.Process) error {
	inclusiveGateways := append([]*bpmn.OrGateway(nil), p.OrGateways...)
	if len(inclusiveGateways) == 0 {
		return nil
	}

	bridges, err := findMatchingGateways(p, inclusiveGateways)
	if err != nil {
		return err
	}
	parallelBridges := inclusiveGwsToParallelGws(p, bridges)

	for _, bridge := range parallelBridges {
		addXorsAndActivities(p, bridge)
	}
	return nil
}
