package bpmn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woped/bpmn-pnml-transformer/ids"
)

func TestProcessAddAndLookup(t *testing.T) {
	p := NewProcess("p")
	se := p.AddNode(NewStartEvent("se"))
	assert.Same(t, se, p.GetNode("se"))

	// adding an existing node by id is idempotent
	again := p.AddNode(NewStartEvent("se"))
	assert.Same(t, se, again)
	assert.Len(t, p.StartEvents, 1)
}

func TestProcessFlows(t *testing.T) {
	p := NewProcess("p")
	se := NewStartEvent("se")
	task := NewTask("t1", "work")
	ee := NewEndEvent("ee")
	f1 := p.AddFlow(se, task)
	f2 := p.AddFlow(task, ee)

	assert.Equal(t, 1, task.InDegree())
	assert.Equal(t, 1, task.OutDegree())
	assert.Equal(t, []*Flow{f1}, p.GetIncoming("t1"))
	assert.Equal(t, []*Flow{f2}, p.GetOutgoing("t1"))
	assert.Same(t, se, p.GetFlowSource(f1.ID))
	assert.Same(t, task, p.GetFlowTarget(f1.ID))

	p.RemoveFlow(f1)
	assert.Equal(t, 0, task.InDegree())
	assert.False(t, p.HasFlow(f1.ID))
	assert.NotContains(t, se.Outgoing, f1.ID)
}

func TestProcessDuplicateFlowIDPanics(t *testing.T) {
	p := NewProcess("p")
	se := NewStartEvent("se")
	task := NewTask("t1", "")
	p.AddFlow(se, task)

	assert.Panics(t, func() {
		p.AddFlowWithID(se, task, ids.Arc("se", "t1"))
	})
}

func TestProcessChangeNodeID(t *testing.T) {
	p := NewProcess("p")
	se := NewStartEvent("se")
	task := NewTask("t1", "work")
	ee := NewEndEvent("ee")
	f1 := p.AddFlow(se, task)
	p.AddFlow(task, ee)

	p.ChangeNodeID(task, "renamed")

	assert.False(t, p.HasNode("t1"))
	assert.Same(t, task, p.GetNode("renamed"))
	// flow ids, names and orientation survive
	assert.Equal(t, "renamed", f1.TargetRef)
	require.Len(t, p.GetIncoming("renamed"), 1)
	require.Len(t, p.GetOutgoing("renamed"), 1)
}

func TestRemoveNodeWithConnectingFlows(t *testing.T) {
	p := NewProcess("p")
	se := NewStartEvent("se")
	task := NewTask("t1", "")
	ee := NewEndEvent("ee")
	p.AddFlow(se, task)
	p.AddFlow(task, ee)

	sourceID, targetID := p.RemoveNodeWithConnectingFlows(task)
	assert.Equal(t, "se", sourceID)
	assert.Equal(t, "ee", targetID)
	assert.False(t, p.HasNode("t1"))
	assert.Empty(t, p.Flows)
}

func TestFindStartAndEndEvents(t *testing.T) {
	p := NewProcess("p")
	se := NewStartEvent("se")
	task := NewTask("t1", "")
	ee := NewEndEvent("ee")
	p.AddFlow(se, task)
	p.AddFlow(task, ee)

	starts := p.FindStartEvents()
	require.Len(t, starts, 1)
	assert.Equal(t, "se", starts[0].GetID())
	ends := p.FindEndEvents()
	require.Len(t, ends, 1)
	assert.Equal(t, "ee", ends[0].GetID())
}

func TestIntermediateCatchEventMarkers(t *testing.T) {
	timeEvent := NewTimeCatchEvent("ev1")
	assert.True(t, timeEvent.IsTime())
	assert.False(t, timeEvent.IsMessage())

	messageEvent := NewMessageCatchEvent("ev2")
	assert.True(t, messageEvent.IsMessage())
	assert.False(t, messageEvent.IsTime())
}

func TestIsGatewayAndIsTask(t *testing.T) {
	assert.True(t, IsGateway(NewXorGateway("g", "")))
	assert.True(t, IsGateway(NewAndGateway("g", "")))
	assert.True(t, IsGateway(NewOrGateway("g", "")))
	assert.False(t, IsGateway(NewTask("t", "")))

	assert.True(t, IsTask(NewTask("t", "")))
	assert.True(t, IsTask(NewUserTask("t", "")))
	assert.True(t, IsTask(NewServiceTask("t", "")))
	assert.False(t, IsTask(NewStartEvent("s")))
}
