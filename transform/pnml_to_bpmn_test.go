package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/equality"
	"github.com/woped/bpmn-pnml-transformer/ids"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

func requireEqualBPMN(t *testing.T, expected, actual *bpmn.Definitions) {
	t.Helper()
	equal, diagnostic := equality.CompareBPMN(expected, actual)
	require.True(t, equal, diagnostic)
}

func TestPNMLToBPMNMinimalLinear(t *testing.T) {
	doc := createPetriNet("linear", [][]pnml.Node{{
		pnml.NewPlace("StartEvent_1kldrri"),
		pnml.NewTransition("Activity_16g2nsl", "Task"),
		pnml.NewPlace("Event_02tt0ub"),
	}})

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)

	expected := createBPMN("linear", [][]bpmn.Node{{
		bpmn.NewStartEvent("StartEvent_1kldrri"),
		bpmn.NewTask("Activity_16g2nsl", "Task"),
		bpmn.NewEndEvent("Event_02tt0ub"),
	}})
	requireEqualBPMN(t, expected, actual)
}

func TestPNMLToBPMNPlaceBetweenTasksReduces(t *testing.T) {
	doc := createPetriNet("chain", [][]pnml.Node{{
		pnml.NewPlace("p1"),
		pnml.NewTransition("t1", "First"),
		pnml.NewPlace("p2"),
		pnml.NewTransition("t2", "Second"),
		pnml.NewPlace("p3"),
	}})

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)

	// the intermediate place becomes a degenerate gateway and is removed
	expected := createBPMN("chain", [][]bpmn.Node{{
		bpmn.NewStartEvent("p1"),
		bpmn.NewTask("t1", "First"),
		bpmn.NewTask("t2", "Second"),
		bpmn.NewEndEvent("p3"),
	}})
	requireEqualBPMN(t, expected, actual)
}

func TestPNMLToBPMNXorSplitOperator(t *testing.T) {
	doc := pnml.NewDocument("ops")
	net := doc.Net
	p0 := net.AddPlace(pnml.NewPlace("p0"))
	pa := net.AddPlace(pnml.NewPlace("pa"))
	pb := net.AddPlace(pnml.NewPlace("pb"))
	h1 := net.AddTransition(operatorTransition("g1_op_1", "", "g1", pnml.XorSplit))
	h2 := net.AddTransition(operatorTransition("g1_op_2", "", "g1", pnml.XorSplit))
	net.AddArc(p0, h1)
	net.AddArc(p0, h2)
	net.AddArc(h1, pa)
	net.AddArc(h2, pb)

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)

	expected := createBPMN("ops", [][]bpmn.Node{
		{bpmn.NewStartEvent("p0"), bpmn.NewXorGateway("g1", ""), bpmn.NewEndEvent("pa")},
		{bpmn.NewXorGateway("g1", ""), bpmn.NewEndEvent("pb")},
	})
	requireEqualBPMN(t, expected, actual)
}

func TestPNMLToBPMNNamedJoinOperatorGainsExplicitTask(t *testing.T) {
	doc := pnml.NewDocument("ops")
	net := doc.Net
	pa := net.AddPlace(pnml.NewPlace("pa"))
	pb := net.AddPlace(pnml.NewPlace("pb"))
	out := net.AddPlace(pnml.NewPlace("out"))
	h1 := net.AddTransition(operatorTransition("g1_op_1", "join it", "g1", pnml.AndJoin))
	net.AddArc(pa, h1)
	net.AddArc(pb, h1)
	net.AddArc(h1, out)

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)
	p := actual.Process

	gateway := p.GetNode("g1")
	_, isAnd := gateway.(*bpmn.AndGateway)
	assert.True(t, isAnd)
	assert.Equal(t, "", gateway.GetName())

	task := p.GetNode(ids.ExplicitTransition("g1"))
	_, isTask := task.(*bpmn.Task)
	assert.True(t, isTask)
	assert.Equal(t, "join it", task.GetName())
}

func TestPNMLToBPMNCombinedXorJoinAndSplit(t *testing.T) {
	build := func(name string) *pnml.Document {
		doc := pnml.NewDocument("ops")
		net := doc.Net
		p1 := net.AddPlace(pnml.NewPlace("p1"))
		p2 := net.AddPlace(pnml.NewPlace("p2"))
		q1 := net.AddPlace(pnml.NewPlace("q1"))
		q2 := net.AddPlace(pnml.NewPlace("q2"))
		op := net.AddTransition(operatorTransition("n1", name, "o1", pnml.XorJoinAndSplit))
		net.AddArc(p1, op)
		net.AddArc(p2, op)
		net.AddArc(op, q1)
		net.AddArc(op, q2)
		return doc
	}

	t.Run("unnamed expands to directly connected helpers", func(t *testing.T) {
		actual, err := BPMNFromPNML(build(""))
		require.NoError(t, err)

		expected := createBPMN("ops", [][]bpmn.Node{
			{bpmn.NewStartEvent("p1"), bpmn.NewXorGateway("XORo1", ""), bpmn.NewAndGateway("ANDo1", ""), bpmn.NewEndEvent("q1")},
			{bpmn.NewStartEvent("p2"), bpmn.NewXorGateway("XORo1", "")},
			{bpmn.NewAndGateway("ANDo1", ""), bpmn.NewEndEvent("q2")},
		})
		requireEqualBPMN(t, expected, actual)
	})

	t.Run("named gains an explicit task on the connecting edge", func(t *testing.T) {
		actual, err := BPMNFromPNML(build("do work"))
		require.NoError(t, err)

		expected := createBPMN("ops", [][]bpmn.Node{
			{
				bpmn.NewStartEvent("p1"),
				bpmn.NewXorGateway("XORo1", ""),
				bpmn.NewTask(ids.ExplicitTransition("o1"), "do work"),
				bpmn.NewAndGateway("ANDo1", ""),
				bpmn.NewEndEvent("q1"),
			},
			{bpmn.NewStartEvent("p2"), bpmn.NewXorGateway("XORo1", "")},
			{bpmn.NewAndGateway("ANDo1", ""), bpmn.NewEndEvent("q2")},
		})
		requireEqualBPMN(t, expected, actual)
	})
}

func TestPNMLToBPMNXorJoinSplitGroup(t *testing.T) {
	doc := pnml.NewDocument("ops")
	net := doc.Net
	in1 := net.AddPlace(pnml.NewPlace("in1"))
	in2 := net.AddPlace(pnml.NewPlace("in2"))
	out1 := net.AddPlace(pnml.NewPlace("out1"))
	out2 := net.AddPlace(pnml.NewPlace("out2"))
	center := net.AddNode(operatorPlace("P_CENTER_g", "g", pnml.XorJoinSplit))
	h1 := net.AddTransition(operatorTransition("g_op_1", "", "g", pnml.XorJoinSplit))
	h2 := net.AddTransition(operatorTransition("g_op_2", "", "g", pnml.XorJoinSplit))
	h3 := net.AddTransition(operatorTransition("g_op_3", "", "g", pnml.XorJoinSplit))
	h4 := net.AddTransition(operatorTransition("g_op_4", "", "g", pnml.XorJoinSplit))
	net.AddArc(in1, h1)
	net.AddArc(in2, h2)
	net.AddArc(h1, center)
	net.AddArc(h2, center)
	net.AddArc(center, h3)
	net.AddArc(center, h4)
	net.AddArc(h3, out1)
	net.AddArc(h4, out2)

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)

	// the whole group collapses into one gateway
	expected := createBPMN("ops", [][]bpmn.Node{
		{bpmn.NewStartEvent("in1"), bpmn.NewXorGateway("g", ""), bpmn.NewEndEvent("out1")},
		{bpmn.NewStartEvent("in2"), bpmn.NewXorGateway("g", "")},
		{bpmn.NewXorGateway("g", ""), bpmn.NewEndEvent("out2")},
	})
	requireEqualBPMN(t, expected, actual)
}

func TestPNMLToBPMNNamedAndTransitionSplits(t *testing.T) {
	doc := pnml.NewDocument("named")
	net := doc.Net
	p1 := net.AddPlace(pnml.NewPlace("p1"))
	p2 := net.AddPlace(pnml.NewPlace("p2"))
	out := net.AddPlace(pnml.NewPlace("out"))
	join := net.AddTransition(pnml.NewTransition("g", "do"))
	net.AddArc(p1, join)
	net.AddArc(p2, join)
	net.AddArc(join, out)

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)
	p := actual.Process

	gateway := p.GetNode("g")
	_, isAnd := gateway.(*bpmn.AndGateway)
	assert.True(t, isAnd)
	assert.Equal(t, "", gateway.GetName())

	task := p.GetNode(ids.ExplicitTransition("g"))
	assert.Equal(t, "do", task.GetName())
	// the silent place between gateway and task reduced away
	assert.True(t, p.HasFlow(ids.Arc("g", ids.ExplicitTransition("g"))))
}

func TestPNMLToBPMNDanglingTransitions(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<pnml>
  <net id="dangling">
    <transition id="a"><name><text>source</text></name></transition>
    <transition id="b"><name><text>link</text></name></transition>
    <transition id="c"><name><text>sink</text></name></transition>
    <arc id="aTOb" source="a" target="b"/>
    <arc id="bTOc" source="b" target="c"/>
  </net>
</pnml>`
	doc, err := pnml.Parse(content)
	require.NoError(t, err)

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)

	expected := createBPMN("dangling", [][]bpmn.Node{{
		bpmn.NewStartEvent(ids.Source("a")),
		bpmn.NewTask("a", "source"),
		bpmn.NewTask("b", "link"),
		bpmn.NewTask("c", "sink"),
		bpmn.NewEndEvent(ids.Sink("c")),
	}})
	requireEqualBPMN(t, expected, actual)
}

func TestPNMLToBPMNTimeTriggerBecomesCatchEvent(t *testing.T) {
	doc := createPetriNet("trigger", [][]pnml.Node{{
		pnml.NewPlace("p1"),
		timeTransition("t1", "wait"),
		pnml.NewPlace("p2"),
	}})

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)

	expected := createBPMN("trigger", [][]bpmn.Node{{
		bpmn.NewStartEvent("p1"),
		bpmn.NewTimeCatchEvent(ids.Trigger("t1")),
		bpmn.NewTask("t1", "wait"),
		bpmn.NewEndEvent("p2"),
	}})
	requireEqualBPMN(t, expected, actual)
}

func TestPNMLToBPMNResourceTransitionBecomesUserTask(t *testing.T) {
	doc := createPetriNet("resources", [][]pnml.Node{{
		pnml.NewPlace("p1"),
		resourceTransition("t1", "review", "clerk", "orga"),
		pnml.NewPlace("p2"),
	}})

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)
	p := actual.Process

	task := p.GetNode("t1")
	_, isUserTask := task.(*bpmn.UserTask)
	assert.True(t, isUserTask)

	require.NotNil(t, actual.Collaboration)
	assert.Equal(t, "orga", actual.Collaboration.Participant.Name)
	require.Len(t, p.LaneSets, 1)
	laneNames := map[string][]string{}
	for _, lane := range p.LaneSets[0].Lanes {
		laneNames[lane.Name] = lane.FlowNodeRefs
	}
	assert.Equal(t, []string{"t1"}, laneNames["clerk"])
	assert.Contains(t, laneNames, "Unknown participant")
}

func TestPNMLToBPMNSubprocessLift(t *testing.T) {
	doc := pnml.NewDocument("root")
	net := doc.Net
	pIn := net.AddPlace(pnml.NewPlace("p_in"))
	pOut := net.AddPlace(pnml.NewPlace("p_out"))
	sub := net.AddTransition(markedSubprocessTransition("sb", "Sub"))
	net.AddArc(pIn, sub)
	net.AddArc(sub, pOut)

	inner := pnml.NewNet("")
	innerIn := inner.AddPlace(pnml.NewPlace("p_in"))
	innerTask := inner.AddTransition(pnml.NewTransition("it", "Inner"))
	innerOut := inner.AddPlace(pnml.NewPlace("p_out"))
	inner.AddArc(innerIn, innerTask)
	inner.AddArc(innerTask, innerOut)
	net.AddPage(&pnml.Page{ID: "sb", Net: inner})

	actual, err := BPMNFromPNML(doc)
	require.NoError(t, err)
	p := actual.Process

	require.Len(t, p.Subprocesses, 1)
	embedded := p.Subprocesses[0]
	assert.Equal(t, "sb", embedded.GetID())
	assert.Equal(t, "Sub", embedded.GetName())
	assert.Nil(t, embedded.IsExecutable)
	assert.True(t, embedded.HasNode("it"))
	assert.True(t, p.HasFlow(ids.Arc("p_in", "sb")))
	assert.True(t, p.HasFlow(ids.Arc("sb", "p_out")))
}

func TestPNMLToBPMNSubprocessWrongInnerSourceSinkDegree(t *testing.T) {
	doc := pnml.NewDocument("root")
	net := doc.Net
	pIn := net.AddPlace(pnml.NewPlace("p_in"))
	pOut := net.AddPlace(pnml.NewPlace("p_out"))
	sub := net.AddTransition(markedSubprocessTransition("sb", "Sub"))
	net.AddArc(pIn, sub)
	net.AddArc(sub, pOut)

	inner := pnml.NewNet("")
	innerIn := inner.AddPlace(pnml.NewPlace("p_in"))
	innerTask := inner.AddTransition(pnml.NewTransition("it", "Inner"))
	innerOut := inner.AddPlace(pnml.NewPlace("p_out"))
	inner.AddArc(innerIn, innerTask)
	inner.AddArc(innerTask, innerOut)
	// an arc back into the source makes it an invalid inner source
	innerBack := inner.AddTransition(pnml.NewTransition("back", "Back"))
	inner.AddArc(innerOut, innerBack)
	inner.AddArc(innerBack, innerIn)
	net.AddPage(&pnml.Page{ID: "sb", Net: inner})

	_, err := BPMNFromPNML(doc)
	require.Error(t, err)
	id, ok := errsAs(err)
	require.True(t, ok)
	assert.Equal(t, 9, id)
}

func TestPNMLToBPMNMultipleOrganizationsFail(t *testing.T) {
	doc := createPetriNet("orgs", [][]pnml.Node{{
		pnml.NewPlace("p1"),
		resourceTransition("t1", "one", "clerk", "orga"),
		pnml.NewPlace("p2"),
		resourceTransition("t2", "two", "clerk", "other"),
		pnml.NewPlace("p3"),
	}})

	_, err := BPMNFromPNML(doc)
	require.Error(t, err)
	id, ok := errsAs(err)
	require.True(t, ok)
	assert.Equal(t, 10, id)
}
