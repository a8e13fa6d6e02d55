package pnml

import (
	"sort"

	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/ids"
)

// Node is implemented by every node stored in a Net: places, transitions and
// the transformation helper kinds.
type Node interface {
	GetID() string
	Element() *NetElement
}

// Element returns the shared header of the node.
func (e *NetElement) Element() *NetElement { return e }

// Place is a Petri-net place.
type Place struct {
	NetElement
}

// NewPlace creates an unnamed place.
func NewPlace(id string) *Place {
	return &Place{NetElement{ID: id}}
}

// Transition is a Petri-net transition.
type Transition struct {
	NetElement
}

// NewTransition creates a transition; an empty name means silent.
func NewTransition(id, name string) *Transition {
	t := &Transition{NetElement{ID: id}}
	t.SetName(name)
	return t
}

// Page wraps the nested net a subprocess transition stands for.
type Page struct {
	ID  string `xml:"id,attr"`
	Net *Net   `xml:"net"`
}

// Net holds the disjoint place, transition and arc sets of one (sub)net plus
// the indexes every transformation pass relies on. All mutating operations
// keep the indexes consistent with the primary sets.
type Net struct {
	Type string `xml:"type,attr,omitempty"`
	ID   string `xml:"id,attr,omitempty"`

	ToolspecificGlobal *ToolspecificGlobal `xml:"toolspecific,omitempty"`

	Places      []*Place      `xml:"place"`
	Transitions []*Transition `xml:"transition"`
	Arcs        []*Arc        `xml:"arc"`
	Pages       []*Page       `xml:"page"`

	helpers  []Node
	elements map[string]Node
	arcIndex map[string]*Arc
	incoming map[string]map[string]*Arc
	outgoing map[string]map[string]*Arc
}

// NewNet creates an empty net with initialized indexes.
func NewNet(id string) *Net {
	n := &Net{ID: id}
	n.initIndexes()
	return n
}

func (n *Net) initIndexes() {
	n.elements = map[string]Node{}
	n.arcIndex = map[string]*Arc{}
	n.incoming = map[string]map[string]*Arc{}
	n.outgoing = map[string]map[string]*Arc{}
}

// reindex rebuilds all indexes from the primary sets, recursing into pages.
// It must be called after decoding a net from XML.
func (n *Net) reindex() {
	n.initIndexes()
	for _, p := range n.Places {
		n.elements[p.ID] = p
	}
	for _, t := range n.Transitions {
		n.elements[t.ID] = t
	}
	for _, a := range n.Arcs {
		n.arcIndex[a.ID] = a
		n.indexArc(a)
	}
	for _, page := range n.Pages {
		if page.Net != nil {
			page.Net.reindex()
		}
	}
}

func (n *Net) indexArc(a *Arc) {
	if n.incoming[a.Target] == nil {
		n.incoming[a.Target] = map[string]*Arc{}
	}
	n.incoming[a.Target][a.ID] = a
	if n.outgoing[a.Source] == nil {
		n.outgoing[a.Source] = map[string]*Arc{}
	}
	n.outgoing[a.Source][a.ID] = a
}

// GetNode returns the node with the given id; missing ids are internal errors.
func (n *Net) GetNode(id string) Node {
	node, ok := n.elements[id]
	if !ok {
		panic(errs.Internalf("cannot get nonexisting node %q", id))
	}
	return node
}

// GetNodeOrNil returns the node with the given id, or nil.
func (n *Net) GetNodeOrNil(id string) Node {
	return n.elements[id]
}

// HasNode reports whether a node with the given id exists.
func (n *Net) HasNode(id string) bool {
	_, ok := n.elements[id]
	return ok
}

// AddNode stores a node in the set matching its kind. Adding a node whose id
// is already present is a no-op returning the existing node.
func (n *Net) AddNode(node Node) Node {
	if existing, ok := n.elements[node.GetID()]; ok {
		return existing
	}
	switch v := node.(type) {
	case *Place:
		n.Places = append(n.Places, v)
	case *Transition:
		n.Transitions = append(n.Transitions, v)
	case *XORHelper, *ANDHelper, *TimeHelper, *MessageHelper:
		n.helpers = append(n.helpers, node)
	default:
		panic(errs.Internalf("not a petri net node: %T", node))
	}
	n.elements[node.GetID()] = node
	return node
}

// AddPlace stores a place and returns it (or the already stored place).
func (n *Net) AddPlace(p *Place) *Place {
	return n.AddNode(p).(*Place)
}

// AddTransition stores a transition and returns it (or the already stored one).
func (n *Net) AddTransition(t *Transition) *Transition {
	return n.AddNode(t).(*Transition)
}

// RemoveNode deletes the node and detaches the index entries of its incident
// arcs. The arcs themselves must be removed by the caller; a remaining arc
// referencing the node keeps a cleared endpoint so it can be skipped.
func (n *Net) RemoveNode(node Node) {
	id := node.GetID()
	if _, ok := n.elements[id]; !ok {
		panic(errs.Internalf("cannot remove nonexisting node %q", id))
	}
	switch node.(type) {
	case *Place:
		n.Places = removeByID(n.Places, id)
	case *Transition:
		n.Transitions = removeByID(n.Transitions, id)
	default:
		n.helpers = removeNodeByID(n.helpers, id)
	}
	delete(n.elements, id)
	for _, a := range n.incoming[id] {
		a.Target = ""
	}
	for _, a := range n.outgoing[id] {
		a.Source = ""
	}
	delete(n.incoming, id)
	delete(n.outgoing, id)
}

func removeByID[T Node](s []T, id string) []T {
	out := s[:0]
	for _, e := range s {
		if e.GetID() != id {
			out = append(out, e)
		}
	}
	return out
}

func removeNodeByID(s []Node, id string) []Node {
	out := s[:0]
	for _, e := range s {
		if e.GetID() != id {
			out = append(out, e)
		}
	}
	return out
}

// AllNodes returns every node of the net: places, transitions and helpers.
func (n *Net) AllNodes() []Node {
	nodes := make([]Node, 0, len(n.Places)+len(n.Transitions)+len(n.helpers))
	for _, p := range n.Places {
		nodes = append(nodes, p)
	}
	for _, t := range n.Transitions {
		nodes = append(nodes, t)
	}
	nodes = append(nodes, n.helpers...)
	return nodes
}

// Helpers returns the transformation helper nodes of the net.
func (n *Net) Helpers() []Node {
	return append([]Node(nil), n.helpers...)
}

func sameKind(a, b Node) bool {
	switch a.(type) {
	case *Place:
		_, ok := b.(*Place)
		return ok
	case *Transition:
		_, ok := b.(*Transition)
		return ok
	}
	return false
}

// AddArc connects source to target with the default arc id. Same-kind
// endpoints and duplicate arc ids are internal errors.
func (n *Net) AddArc(source, target Node) *Arc {
	return n.AddArcWithID(source, target, ids.Arc(source.GetID(), target.GetID()))
}

// AddArcWithID connects source to target under an explicit arc id.
func (n *Net) AddArcWithID(source, target Node, id string) *Arc {
	if sameKind(source, target) {
		panic(errs.Internalf("cannot connect identical petri net elements %q and %q",
			source.GetID(), target.GetID()))
	}
	if _, exists := n.arcIndex[id]; exists {
		panic(errs.Internalf("arc %q already exists from %q to %q",
			id, source.GetID(), target.GetID()))
	}
	n.AddNode(source)
	n.AddNode(target)

	a := &Arc{ID: id, Source: source.GetID(), Target: target.GetID()}
	n.arcIndex[id] = a
	n.indexArc(a)
	n.Arcs = append(n.Arcs, a)
	return a
}

// AddArcFromID connects two already stored nodes by id.
func (n *Net) AddArcFromID(sourceID, targetID string) *Arc {
	return n.AddArc(n.GetNode(sourceID), n.GetNode(targetID))
}

// AddArcHandleSameType connects source to target, inserting a silent node of
// the opposite kind when both endpoints are places or both are transitions.
func (n *Net) AddArcHandleSameType(source, target Node) {
	switch source.(type) {
	case *Place:
		if _, ok := target.(*Place); ok {
			t := n.AddTransition(NewTransition(ids.SilentNode(source.GetID(), target.GetID()), ""))
			n.AddArc(source, t)
			n.AddArc(t, target)
			return
		}
	case *Transition:
		if _, ok := target.(*Transition); ok {
			p := n.AddPlace(NewPlace(ids.SilentNode(source.GetID(), target.GetID())))
			n.AddArc(source, p)
			n.AddArc(p, target)
			return
		}
	}
	n.AddArc(source, target)
}

// AddArcHandleSameTypeFromID is AddArcHandleSameType over stored node ids.
func (n *Net) AddArcHandleSameTypeFromID(sourceID, targetID string) {
	n.AddArcHandleSameType(n.GetNode(sourceID), n.GetNode(targetID))
}

// RemoveArc deletes the arc from the net and all indexes.
func (n *Net) RemoveArc(a *Arc) {
	if _, ok := n.arcIndex[a.ID]; !ok {
		panic(errs.Internalf("cannot remove nonexisting arc %q", a.ID))
	}
	delete(n.arcIndex, a.ID)
	if a.Target != "" && n.incoming[a.Target] != nil {
		delete(n.incoming[a.Target], a.ID)
	}
	if a.Source != "" && n.outgoing[a.Source] != nil {
		delete(n.outgoing[a.Source], a.ID)
	}
	out := n.Arcs[:0]
	for _, existing := range n.Arcs {
		if existing.ID != a.ID {
			out = append(out, existing)
		}
	}
	n.Arcs = out
}

func sortedArcs(m map[string]*Arc) []*Arc {
	arcs := make([]*Arc, 0, len(m))
	for _, a := range m {
		arcs = append(arcs, a)
	}
	sort.Slice(arcs, func(i, j int) bool { return arcs[i].ID < arcs[j].ID })
	return arcs
}

// GetIncoming returns the arcs ending at the node, sorted by arc id.
func (n *Net) GetIncoming(id string) []*Arc {
	return sortedArcs(n.incoming[id])
}

// GetOutgoing returns the arcs starting at the node, sorted by arc id.
func (n *Net) GetOutgoing(id string) []*Arc {
	return sortedArcs(n.outgoing[id])
}

// InDegree returns the number of arcs ending at the node.
func (n *Net) InDegree(id string) int { return len(n.incoming[id]) }

// OutDegree returns the number of arcs starting at the node.
func (n *Net) OutDegree(id string) int { return len(n.outgoing[id]) }

// GetIncomingAndRemove returns copies of the node's incoming arcs after
// removing them from the net.
func (n *Net) GetIncomingAndRemove(node Node) []*Arc {
	arcs := n.GetIncoming(node.GetID())
	copies := make([]*Arc, 0, len(arcs))
	for _, a := range arcs {
		c := *a
		copies = append(copies, &c)
		n.RemoveArc(a)
	}
	return copies
}

// GetOutgoingAndRemove returns copies of the node's outgoing arcs after
// removing them from the net.
func (n *Net) GetOutgoingAndRemove(node Node) []*Arc {
	arcs := n.GetOutgoing(node.GetID())
	copies := make([]*Arc, 0, len(arcs))
	for _, a := range arcs {
		c := *a
		copies = append(copies, &c)
		n.RemoveArc(a)
	}
	return copies
}

// ConnectToElement recreates the given incoming arcs with the node as target.
func (n *Net) ConnectToElement(node Node, incoming []*Arc) {
	for _, a := range incoming {
		n.AddArcFromID(a.Source, node.GetID())
	}
}

// ConnectFromElement recreates the given outgoing arcs with the node as source.
func (n *Net) ConnectFromElement(node Node, outgoing []*Arc) {
	for _, a := range outgoing {
		n.AddArcFromID(node.GetID(), a.Target)
	}
}

// ChangeNodeID atomically re-keys the node and rewrites the endpoints of
// every incident arc, preserving arc ids and orientation.
func (n *Net) ChangeNodeID(node Node, newID string) {
	oldID := node.GetID()
	if oldID == newID {
		return
	}
	if _, exists := n.elements[newID]; exists {
		panic(errs.Internalf("cannot rename %q: node %q already exists", oldID, newID))
	}
	delete(n.elements, oldID)
	node.Element().ID = newID
	n.elements[newID] = node

	if in := n.incoming[oldID]; in != nil {
		for _, a := range in {
			a.Target = newID
		}
		delete(n.incoming, oldID)
		n.incoming[newID] = in
	}
	if out := n.outgoing[oldID]; out != nil {
		for _, a := range out {
			a.Source = newID
		}
		delete(n.outgoing, oldID)
		n.outgoing[newID] = out
	}
}

// AddPage stores a page; adding a page whose id is already present returns
// the existing page.
func (n *Net) AddPage(p *Page) *Page {
	for _, existing := range n.Pages {
		if existing.ID == p.ID {
			return existing
		}
	}
	n.Pages = append(n.Pages, p)
	return p
}

// GetPage returns the page with the given id; missing pages are internal errors.
func (n *Net) GetPage(id string) *Page {
	for _, p := range n.Pages {
		if p.ID == id {
			return p
		}
	}
	panic(errs.Internalf("cannot find page %q", id))
}
