package pnml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/ids"
)

func TestNetAddAndLookup(t *testing.T) {
	net := NewNet("n1")
	p := net.AddPlace(NewPlace("p1"))
	tr := net.AddTransition(NewTransition("t1", "work"))

	assert.Same(t, p, net.GetNode("p1"))
	assert.Same(t, tr, net.GetNode("t1"))
	assert.Nil(t, net.GetNodeOrNil("missing"))

	// adding an existing node by id is idempotent
	again := net.AddPlace(NewPlace("p1"))
	assert.Same(t, p, again)
	assert.Len(t, net.Places, 1)
}

func TestNetArcIndexConsistency(t *testing.T) {
	net := NewNet("n1")
	p1 := net.AddPlace(NewPlace("p1"))
	tr := net.AddTransition(NewTransition("t1", ""))
	p2 := net.AddPlace(NewPlace("p2"))

	a1 := net.AddArc(p1, tr)
	a2 := net.AddArc(tr, p2)

	assert.Equal(t, 1, net.InDegree("t1"))
	assert.Equal(t, 1, net.OutDegree("t1"))
	assert.Equal(t, []*Arc{a1}, net.GetIncoming("t1"))
	assert.Equal(t, []*Arc{a2}, net.GetOutgoing("t1"))

	net.RemoveArc(a1)
	assert.Equal(t, 0, net.InDegree("t1"))
	assert.Len(t, net.Arcs, 1)
}

func TestNetAddArcSameKindPanics(t *testing.T) {
	net := NewNet("n1")
	p1 := net.AddPlace(NewPlace("p1"))
	p2 := net.AddPlace(NewPlace("p2"))

	assert.PanicsWithError(t, (&errs.Internal{}).Error(), func() {
		net.AddArc(p1, p2)
	})
}

func TestNetAddArcDuplicateIDPanics(t *testing.T) {
	net := NewNet("n1")
	p := net.AddPlace(NewPlace("p1"))
	tr := net.AddTransition(NewTransition("t1", ""))
	net.AddArc(p, tr)

	assert.Panics(t, func() {
		net.AddArcWithID(p, tr, ids.Arc("p1", "t1"))
	})
}

func TestNetAddArcHandleSameType(t *testing.T) {
	t.Run("place to place inserts silent transition", func(t *testing.T) {
		net := NewNet("n1")
		p1 := net.AddPlace(NewPlace("p1"))
		p2 := net.AddPlace(NewPlace("p2"))
		net.AddArcHandleSameType(p1, p2)

		silentID := ids.SilentNode("p1", "p2")
		silent := net.GetNode(silentID)
		_, isTransition := silent.(*Transition)
		assert.True(t, isTransition)
		assert.Equal(t, "", silent.Element().GetName())
		assert.Len(t, net.Arcs, 2)
	})

	t.Run("transition to transition inserts silent place", func(t *testing.T) {
		net := NewNet("n1")
		t1 := net.AddTransition(NewTransition("t1", ""))
		t2 := net.AddTransition(NewTransition("t2", ""))
		net.AddArcHandleSameType(t1, t2)

		silent := net.GetNode(ids.SilentNode("t1", "t2"))
		_, isPlace := silent.(*Place)
		assert.True(t, isPlace)
	})

	t.Run("mixed kinds connect directly", func(t *testing.T) {
		net := NewNet("n1")
		p := net.AddPlace(NewPlace("p1"))
		tr := net.AddTransition(NewTransition("t1", ""))
		net.AddArcHandleSameType(p, tr)
		assert.Len(t, net.Arcs, 1)
	})
}

func TestNetRemoveNodeDetachesArcs(t *testing.T) {
	net := NewNet("n1")
	p1 := net.AddPlace(NewPlace("p1"))
	tr := net.AddTransition(NewTransition("t1", ""))
	p2 := net.AddPlace(NewPlace("p2"))
	net.AddArc(p1, tr)
	a2 := net.AddArc(tr, p2)

	net.RemoveNode(tr)
	assert.False(t, net.HasNode("t1"))
	// remaining arcs keep cleared endpoints
	assert.Equal(t, "", a2.Source)
}

func TestNetChangeNodeID(t *testing.T) {
	net := NewNet("n1")
	p1 := net.AddPlace(NewPlace("p1"))
	tr := net.AddTransition(NewTransition("t1", ""))
	p2 := net.AddPlace(NewPlace("p2"))
	net.AddArc(p1, tr)
	net.AddArc(tr, p2)

	net.ChangeNodeID(p1, "renamed")

	assert.False(t, net.HasNode("p1"))
	assert.Same(t, p1, net.GetNode("renamed"))
	// arc ids and orientation survive the rename
	out := net.GetOutgoing("renamed")
	require.Len(t, out, 1)
	assert.Equal(t, ids.Arc("p1", "t1"), out[0].ID)
	assert.Equal(t, "renamed", out[0].Source)
	assert.Equal(t, "t1", out[0].Target)
}

func TestNetHelpersStayOutsideSerializedSets(t *testing.T) {
	net := NewNet("n1")
	helper := NewXORHelper("x1", "pick")
	net.AddNode(helper)

	assert.Empty(t, net.Places)
	assert.Empty(t, net.Transitions)
	assert.Len(t, net.Helpers(), 1)
	assert.Same(t, helper, net.GetNode("x1"))
}

func TestNetPages(t *testing.T) {
	net := NewNet("root")
	page := net.AddPage(&Page{ID: "sub", Net: NewNet("")})
	assert.Same(t, page, net.AddPage(&Page{ID: "sub", Net: NewNet("")}))
	assert.Same(t, page, net.GetPage("sub"))
}

func TestToolspecificPredicates(t *testing.T) {
	tr := NewTransition("t1", "work")
	assert.False(t, tr.IsWorkflowOperator())
	assert.False(t, tr.IsWorkflowEventTrigger())

	tr.MarkAsWorkflowTime()
	assert.True(t, tr.IsWorkflowTime())
	assert.False(t, tr.IsWorkflowMessage())
	assert.True(t, tr.IsWorkflowEventTrigger())

	tr.MarkAsWorkflowMessage()
	assert.True(t, tr.IsWorkflowMessage())

	tr.MarkAsWorkflowResource("clerk", "orga")
	assert.True(t, tr.IsWorkflowResource())

	tr.MarkAsWorkflowOperator(AndSplit, "g1")
	assert.True(t, tr.IsWorkflowOperator())

	tr.MarkAsWorkflowSubprocess()
	assert.True(t, tr.IsWorkflowSubprocess())
}

func TestToolspecificCopyIsDeep(t *testing.T) {
	tr := NewTransition("t1", "")
	tr.MarkAsWorkflowResource("clerk", "orga")

	other := NewTransition("t2", "")
	other.SetCopyOfToolspecific(tr.Toolspecific)
	other.Toolspecific.TransitionResource.RoleName = "changed"

	assert.Equal(t, "clerk", tr.Toolspecific.TransitionResource.RoleName)
}
