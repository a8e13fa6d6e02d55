package transform

import (
	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// errsAs unwraps a known transformer error into its numeric id.
func errsAs(err error) (int, bool) {
	known, ok := errs.AsKnown(err)
	if !ok {
		return 0, false
	}
	return known.ID, true
}

// createBPMN builds a document whose process contains the given node rows,
// connecting consecutive nodes of each row with default-id flows.
func createBPMN(id string, rows [][]bpmn.Node) *bpmn.Definitions {
	d := bpmn.NewDefinitions(id)
	for _, row := range rows {
		for _, node := range row {
			d.Process.AddNode(node)
		}
		for i := 0; i+1 < len(row); i++ {
			d.Process.AddFlow(row[i], row[i+1])
		}
	}
	return d
}

// createPetriNet builds a document whose net contains the given node rows,
// connecting consecutive nodes of each row with default-id arcs.
func createPetriNet(id string, rows [][]pnml.Node) *pnml.Document {
	doc := pnml.NewDocument(id)
	for _, row := range rows {
		for _, node := range row {
			doc.Net.AddNode(node)
		}
		for i := 0; i+1 < len(row); i++ {
			doc.Net.AddArc(row[i], row[i+1])
		}
	}
	return doc
}

func markedSubprocessTransition(id, name string) *pnml.Transition {
	t := pnml.NewTransition(id, name)
	t.MarkAsWorkflowSubprocess()
	return t
}

func operatorTransition(id, name, operatorID string, t pnml.WorkflowBranchingType) *pnml.Transition {
	transition := pnml.NewTransition(id, name)
	transition.MarkAsWorkflowOperator(t, operatorID)
	return transition
}

func operatorPlace(id, operatorID string, t pnml.WorkflowBranchingType) *pnml.Place {
	place := pnml.NewPlace(id)
	place.MarkAsWorkflowOperator(t, operatorID)
	return place
}

func resourceTransition(id, name, role, organization string) *pnml.Transition {
	t := pnml.NewTransition(id, name)
	t.MarkAsWorkflowResource(role, organization)
	return t
}

func timeTransition(id, name string) *pnml.Transition {
	t := pnml.NewTransition(id, name)
	t.MarkAsWorkflowTime()
	return t
}
