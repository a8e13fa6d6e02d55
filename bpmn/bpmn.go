package bpmn

import (
	"sort"

	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/ids"
)

// StartEvent starts a process; inside a subprocess it has in-degree 0.
type StartEvent struct {
	FlowNode
}

// NewStartEvent creates a start event.
func NewStartEvent(id string) *StartEvent {
	return &StartEvent{FlowNode{ID: id}}
}

// EndEvent ends a process; inside a subprocess it has out-degree 0.
type EndEvent struct {
	FlowNode
}

// NewEndEvent creates an end event.
func NewEndEvent(id string) *EndEvent {
	return &EndEvent{FlowNode{ID: id}}
}

// Task is a plain BPMN task. An unnamed task is silent and removed in
// postprocessing.
type Task struct {
	FlowNode
}

// NewTask creates a task; an empty name means silent.
func NewTask(id, name string) *Task {
	return &Task{FlowNode{ID: id, Name: name}}
}

// UserTask is a task performed by a lane resource.
type UserTask struct {
	FlowNode
}

// NewUserTask creates a user task.
func NewUserTask(id, name string) *UserTask {
	return &UserTask{FlowNode{ID: id, Name: name}}
}

// ServiceTask is a task performed by a system.
type ServiceTask struct {
	FlowNode
}

// NewServiceTask creates a service task.
func NewServiceTask(id, name string) *ServiceTask {
	return &ServiceTask{FlowNode{ID: id, Name: name}}
}

// XorGateway is an exclusive gateway.
type XorGateway struct {
	FlowNode
}

// NewXorGateway creates an exclusive gateway.
func NewXorGateway(id, name string) *XorGateway {
	return &XorGateway{FlowNode{ID: id, Name: name}}
}

// AndGateway is a parallel gateway.
type AndGateway struct {
	FlowNode
}

// NewAndGateway creates a parallel gateway.
func NewAndGateway(id, name string) *AndGateway {
	return &AndGateway{FlowNode{ID: id, Name: name}}
}

// OrGateway is an inclusive gateway; preprocessing replaces it before the
// transform phase.
type OrGateway struct {
	FlowNode
}

// NewOrGateway creates an inclusive gateway.
func NewOrGateway(id, name string) *OrGateway {
	return &OrGateway{FlowNode{ID: id, Name: name}}
}

// MessageEventDefinition marks an intermediate catch event as message-based.
type MessageEventDefinition struct {
	ID string `xml:"id,attr,omitempty"`
}

// TimerEventDefinition marks an intermediate catch event as time-based.
type TimerEventDefinition struct {
	ID string `xml:"id,attr,omitempty"`
}

// IntermediateCatchEvent carries either a time marker or a message marker,
// never both.
type IntermediateCatchEvent struct {
	FlowNode
	MessageEvent *MessageEventDefinition `xml:"messageEventDefinition,omitempty"`
	TimeEvent    *TimerEventDefinition   `xml:"timerEventDefinition,omitempty"`
}

// NewMessageCatchEvent creates a message intermediate catch event.
func NewMessageCatchEvent(id string) *IntermediateCatchEvent {
	return &IntermediateCatchEvent{
		FlowNode:     FlowNode{ID: id},
		MessageEvent: &MessageEventDefinition{},
	}
}

// NewTimeCatchEvent creates a time intermediate catch event.
func NewTimeCatchEvent(id string) *IntermediateCatchEvent {
	return &IntermediateCatchEvent{
		FlowNode:  FlowNode{ID: id},
		TimeEvent: &TimerEventDefinition{},
	}
}

// IsMessage reports whether the event carries a message marker.
func (e *IntermediateCatchEvent) IsMessage() bool { return e.MessageEvent != nil }

// IsTime reports whether the event carries a time marker.
func (e *IntermediateCatchEvent) IsTime() bool { return e.TimeEvent != nil }

// GenericNode is the placeholder node kind inserted during preprocessing. It
// maps to a Petri-net place and never appears in serialized BPMN.
type GenericNode struct {
	FlowNode
}

// NewGenericNode creates a placeholder node.
func NewGenericNode(id string) *GenericNode {
	return &GenericNode{FlowNode{ID: id}}
}

// Flow is a directed sequence flow between two nodes of the same process.
type Flow struct {
	ID        string `xml:"id,attr"`
	Name      string `xml:"name,attr,omitempty"`
	SourceRef string `xml:"sourceRef,attr"`
	TargetRef string `xml:"targetRef,attr"`
}

// Lane assigns a set of flow nodes to a named resource.
type Lane struct {
	ID           string   `xml:"id,attr"`
	Name         string   `xml:"name,attr,omitempty"`
	FlowNodeRefs []string `xml:"flowNodeRef"`
}

// LaneSet groups the lanes of a process.
type LaneSet struct {
	ID    string  `xml:"id,attr"`
	Lanes []*Lane `xml:"lane"`
}

// Participant is the single pool participant of a collaboration.
type Participant struct {
	ID         string `xml:"id,attr"`
	Name       string `xml:"name,attr,omitempty"`
	ProcessRef string `xml:"processRef,attr"`
}

// Collaboration holds the global participant of the document.
type Collaboration struct {
	ID          string       `xml:"id,attr"`
	Participant *Participant `xml:"participant"`
}

// Process is a BPMN process. A nested Process is a subprocess and also acts
// as a flow node of its parent.
type Process struct {
	FlowNode
	IsExecutable *bool `xml:"isExecutable,attr,omitempty"`

	StartEvents  []*StartEvent             `xml:"startEvent"`
	EndEvents    []*EndEvent               `xml:"endEvent"`
	Tasks        []*Task                   `xml:"task"`
	UserTasks    []*UserTask               `xml:"userTask"`
	ServiceTasks []*ServiceTask            `xml:"serviceTask"`
	XorGateways  []*XorGateway             `xml:"exclusiveGateway"`
	OrGateways   []*OrGateway              `xml:"inclusiveGateway"`
	AndGateways  []*AndGateway             `xml:"parallelGateway"`
	CatchEvents  []*IntermediateCatchEvent `xml:"intermediateCatchEvent"`
	Subprocesses []*Process                `xml:"subProcess"`
	Flows        []*Flow                   `xml:"sequenceFlow"`
	LaneSets     []*LaneSet                `xml:"laneSet"`

	// ParticipantMapping maps node ids to lane names; populated from the
	// lane sets before the workflow transformation.
	ParticipantMapping map[string]string `xml:"-"`

	generics []*GenericNode
	nodes    map[string]Node
	flows    map[string]*Flow
	incoming map[string]map[string]*Flow
	outgoing map[string]map[string]*Flow
}

// NewProcess creates an empty process with initialized indexes.
func NewProcess(id string) *Process {
	p := &Process{FlowNode: FlowNode{ID: id}}
	p.initIndexes()
	return p
}

func (p *Process) initIndexes() {
	p.nodes = map[string]Node{}
	p.flows = map[string]*Flow{}
	p.incoming = map[string]map[string]*Flow{}
	p.outgoing = map[string]map[string]*Flow{}
}

// reindex rebuilds all indexes and the per-node flow-id caches from the
// primary sets, recursing into subprocesses. It must be called after
// decoding a process from XML.
func (p *Process) reindex() {
	p.initIndexes()
	for _, n := range p.allNodeSlices() {
		base := n.Base()
		base.Incoming = nil
		base.Outgoing = nil
		p.nodes[n.GetID()] = n
	}
	for _, f := range p.Flows {
		p.flows[f.ID] = f
		p.indexFlow(f)
		if source, ok := p.nodes[f.SourceRef]; ok {
			source.Base().addOutgoing(f.ID)
		}
		if target, ok := p.nodes[f.TargetRef]; ok {
			target.Base().addIncoming(f.ID)
		}
	}
	for _, sub := range p.Subprocesses {
		sub.reindex()
	}
}

func (p *Process) allNodeSlices() []Node {
	nodes := []Node{}
	for _, n := range p.StartEvents {
		nodes = append(nodes, n)
	}
	for _, n := range p.EndEvents {
		nodes = append(nodes, n)
	}
	for _, n := range p.Tasks {
		nodes = append(nodes, n)
	}
	for _, n := range p.UserTasks {
		nodes = append(nodes, n)
	}
	for _, n := range p.ServiceTasks {
		nodes = append(nodes, n)
	}
	for _, n := range p.XorGateways {
		nodes = append(nodes, n)
	}
	for _, n := range p.OrGateways {
		nodes = append(nodes, n)
	}
	for _, n := range p.AndGateways {
		nodes = append(nodes, n)
	}
	for _, n := range p.CatchEvents {
		nodes = append(nodes, n)
	}
	for _, n := range p.Subprocesses {
		nodes = append(nodes, n)
	}
	for _, n := range p.generics {
		nodes = append(nodes, n)
	}
	return nodes
}

// AllNodes returns every flow node of the process, including placeholders
// and subprocesses.
func (p *Process) AllNodes() []Node {
	return p.allNodeSlices()
}

func (p *Process) indexFlow(f *Flow) {
	if p.incoming[f.TargetRef] == nil {
		p.incoming[f.TargetRef] = map[string]*Flow{}
	}
	p.incoming[f.TargetRef][f.ID] = f
	if p.outgoing[f.SourceRef] == nil {
		p.outgoing[f.SourceRef] = map[string]*Flow{}
	}
	p.outgoing[f.SourceRef][f.ID] = f
}

// GetNode returns the node with the given id; missing ids are internal errors.
func (p *Process) GetNode(id string) Node {
	n, ok := p.nodes[id]
	if !ok {
		panic(errs.Internalf("cannot get nonexisting bpmn node %q", id))
	}
	return n
}

// GetNodeOrNil returns the node with the given id, or nil.
func (p *Process) GetNodeOrNil(id string) Node {
	return p.nodes[id]
}

// HasNode reports whether a node with the given id exists.
func (p *Process) HasNode(id string) bool {
	_, ok := p.nodes[id]
	return ok
}

// AddNode stores a node in the set matching its kind. Adding a node whose id
// is already present is a no-op returning the existing node.
func (p *Process) AddNode(node Node) Node {
	if existing, ok := p.nodes[node.GetID()]; ok {
		return existing
	}
	switch v := node.(type) {
	case *StartEvent:
		p.StartEvents = append(p.StartEvents, v)
	case *EndEvent:
		p.EndEvents = append(p.EndEvents, v)
	case *Task:
		p.Tasks = append(p.Tasks, v)
	case *UserTask:
		p.UserTasks = append(p.UserTasks, v)
	case *ServiceTask:
		p.ServiceTasks = append(p.ServiceTasks, v)
	case *XorGateway:
		p.XorGateways = append(p.XorGateways, v)
	case *OrGateway:
		p.OrGateways = append(p.OrGateways, v)
	case *AndGateway:
		p.AndGateways = append(p.AndGateways, v)
	case *IntermediateCatchEvent:
		p.CatchEvents = append(p.CatchEvents, v)
	case *Process:
		p.Subprocesses = append(p.Subprocesses, v)
	case *GenericNode:
		p.generics = append(p.generics, v)
	default:
		panic(errs.Internalf("not a bpmn node: %T", node))
	}
	p.nodes[node.GetID()] = node
	return node
}

// AddNodes stores multiple nodes.
func (p *Process) AddNodes(nodes ...Node) {
	for _, n := range nodes {
		p.AddNode(n)
	}
}

// RemoveNode deletes the node. Flows still referencing it keep a cleared
// endpoint so they can be skipped; dangling flows are an internal error when
// touched again.
func (p *Process) RemoveNode(node Node) {
	id := node.GetID()
	if _, ok := p.nodes[id]; !ok {
		panic(errs.Internalf("cannot remove nonexisting bpmn node %q", id))
	}
	switch node.(type) {
	case *StartEvent:
		p.StartEvents = removeNode(p.StartEvents, id)
	case *EndEvent:
		p.EndEvents = removeNode(p.EndEvents, id)
	case *Task:
		p.Tasks = removeNode(p.Tasks, id)
	case *UserTask:
		p.UserTasks = removeNode(p.UserTasks, id)
	case *ServiceTask:
		p.ServiceTasks = removeNode(p.ServiceTasks, id)
	case *XorGateway:
		p.XorGateways = removeNode(p.XorGateways, id)
	case *OrGateway:
		p.OrGateways = removeNode(p.OrGateways, id)
	case *AndGateway:
		p.AndGateways = removeNode(p.AndGateways, id)
	case *IntermediateCatchEvent:
		p.CatchEvents = removeNode(p.CatchEvents, id)
	case *Process:
		p.Subprocesses = removeNode(p.Subprocesses, id)
	case *GenericNode:
		p.generics = removeNode(p.generics, id)
	default:
		panic(errs.Internalf("not a bpmn node: %T", node))
	}
	delete(p.nodes, id)
	for _, f := range p.incoming[id] {
		f.TargetRef = ""
	}
	for _, f := range p.outgoing[id] {
		f.SourceRef = ""
	}
	delete(p.incoming, id)
	delete(p.outgoing, id)
}

func removeNode[T Node](s []T, id string) []T {
	out := s[:0]
	for _, e := range s {
		if e.GetID() != id {
			out = append(out, e)
		}
	}
	return out
}

// AddFlow connects source to target with the default flow id.
func (p *Process) AddFlow(source, target Node) *Flow {
	return p.AddFlowNamed(source, target, ids.Arc(source.GetID(), target.GetID()), "")
}

// AddFlowWithID connects source to target under an explicit flow id.
func (p *Process) AddFlowWithID(source, target Node, id string) *Flow {
	return p.AddFlowNamed(source, target, id, "")
}

// AddFlowNamed connects source to target under an explicit flow id and name.
// Duplicate flow ids are internal errors.
func (p *Process) AddFlowNamed(source, target Node, id, name string) *Flow {
	if _, exists := p.flows[id]; exists {
		panic(errs.Internalf("flow with the id %q already exists", id))
	}
	source = p.AddNode(source)
	target = p.AddNode(target)

	f := &Flow{ID: id, SourceRef: source.GetID(), TargetRef: target.GetID(), Name: name}
	p.flows[id] = f
	p.indexFlow(f)
	p.Flows = append(p.Flows, f)
	source.Base().addOutgoing(id)
	target.Base().addIncoming(id)
	return f
}

// AddConstructedFlow adds a finished flow whose endpoints are already stored.
func (p *Process) AddConstructedFlow(f *Flow) *Flow {
	return p.AddFlowNamed(p.GetNode(f.SourceRef), p.GetNode(f.TargetRef), f.ID, f.Name)
}

// RemoveFlow deletes the flow from the process and all caches.
func (p *Process) RemoveFlow(f *Flow) {
	if _, ok := p.flows[f.ID]; !ok {
		panic(errs.Internalf("cannot remove nonexisting flow %q", f.ID))
	}
	delete(p.flows, f.ID)
	if p.incoming[f.TargetRef] != nil {
		delete(p.incoming[f.TargetRef], f.ID)
	}
	if p.outgoing[f.SourceRef] != nil {
		delete(p.outgoing[f.SourceRef], f.ID)
	}
	out := p.Flows[:0]
	for _, existing := range p.Flows {
		if existing.ID != f.ID {
			out = append(out, existing)
		}
	}
	p.Flows = out
	if source, ok := p.nodes[f.SourceRef]; ok {
		source.Base().removeOutgoing(f.ID)
	}
	if target, ok := p.nodes[f.TargetRef]; ok {
		target.Base().removeIncoming(f.ID)
	}
}

// GetFlow returns the flow with the given id; missing ids are internal errors.
func (p *Process) GetFlow(id string) *Flow {
	f, ok := p.flows[id]
	if !ok {
		panic(errs.Internalf("cannot get nonexisting flow %q", id))
	}
	return f
}

// HasFlow reports whether a flow with the given id exists.
func (p *Process) HasFlow(id string) bool {
	_, ok := p.flows[id]
	return ok
}

// GetFlowSource returns the source node of a flow id.
func (p *Process) GetFlowSource(flowID string) Node {
	return p.GetNode(p.GetFlow(flowID).SourceRef)
}

// GetFlowTarget returns the target node of a flow id.
func (p *Process) GetFlowTarget(flowID string) Node {
	return p.GetNode(p.GetFlow(flowID).TargetRef)
}

func sortedFlows(m map[string]*Flow) []*Flow {
	flows := make([]*Flow, 0, len(m))
	for _, f := range m {
		flows = append(flows, f)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].ID < flows[j].ID })
	return flows
}

// GetIncoming returns the flows ending at the node, sorted by flow id.
func (p *Process) GetIncoming(id string) []*Flow {
	return sortedFlows(p.incoming[id])
}

// GetOutgoing returns the flows starting at the node, sorted by flow id.
func (p *Process) GetOutgoing(id string) []*Flow {
	return sortedFlows(p.outgoing[id])
}

// ChangeNodeID atomically re-keys the node and rewrites every incident flow,
// preserving flow ids, names and orientation.
func (p *Process) ChangeNodeID(node Node, newID string) {
	oldID := node.GetID()
	if oldID == newID {
		return
	}
	if _, exists := p.nodes[newID]; exists {
		panic(errs.Internalf("cannot rename %q: node %q already exists", oldID, newID))
	}
	delete(p.nodes, oldID)
	node.Base().ID = newID
	p.nodes[newID] = node

	if in := p.incoming[oldID]; in != nil {
		for _, f := range in {
			f.TargetRef = newID
		}
		delete(p.incoming, oldID)
		p.incoming[newID] = in
	}
	if out := p.outgoing[oldID]; out != nil {
		for _, f := range out {
			f.SourceRef = newID
		}
		delete(p.outgoing, oldID)
		p.outgoing[newID] = out
	}
}

// RemoveNodeWithConnectingFlows removes the node together with its sole
// incoming and sole outgoing flow, returning the neighbor ids so the caller
// may reconnect them. An absent side is returned as the empty string.
func (p *Process) RemoveNodeWithConnectingFlows(node Node) (sourceID, targetID string) {
	if node.Base().InDegree() > 0 {
		in := p.GetIncoming(node.GetID())[0]
		sourceID = in.SourceRef
		p.RemoveFlow(in)
	}
	if node.Base().OutDegree() > 0 {
		out := p.GetOutgoing(node.GetID())[0]
		targetID = out.TargetRef
		p.RemoveFlow(out)
	}
	p.RemoveNode(node)
	return sourceID, targetID
}

// FindStartEvents returns the start events with in-degree 0.
func (p *Process) FindStartEvents() []*StartEvent {
	var events []*StartEvent
	for _, se := range p.StartEvents {
		if se.InDegree() == 0 {
			events = append(events, se)
		}
	}
	return events
}

// FindEndEvents returns the end events with out-degree 0.
func (p *Process) FindEndEvents() []*EndEvent {
	var events []*EndEvent
	for _, ee := range p.EndEvents {
		if ee.OutDegree() == 0 {
			events = append(events, ee)
		}
	}
	return events
}
