package transform

import (
	"github.com/woped/bpmn-pnml-transformer/bpmn"
	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/log"
	"github.com/woped/bpmn-pnml-transformer/pnml"
)

// recoverInternal converts invariant-violation panics at the pipeline
// boundary into internal errors; their detail is logged, never shown.
func recoverInternal(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if internal, ok := r.(*errs.Internal); ok {
		log.Error("internal transformation error: %s", internal.Detail)
		*err = internal
		return
	}
	panic(r)
}

// STNetFromBPMN transforms a BPMN document into a standard Petri net:
// subprocesses are inlined and no workflow annotations are emitted.
func STNetFromBPMN(d *bpmn.Definitions) (doc *pnml.Document, err error) {
	defer recoverInternal(&err)

	if err := extendSubprocess(d.Process); err != nil {
		return nil, err
	}
	if err := applyBPMNPreprocessing(d.Process, replaceInclusiveGateways); err != nil {
		return nil, err
	}
	net, err := transformProcessToNet(d.Process, false, "")
	if err != nil {
		return nil, err
	}
	return &pnml.Document{Net: net}, nil
}

// WorkflowNetFromBPMN transforms a BPMN document into a WOPED workflow net
// with operator groups, trigger annotations, resource assignments and
// page-based subprocesses.
func WorkflowNetFromBPMN(d *bpmn.Definitions) (doc *pnml.Document, err error) {
	defer recoverInternal(&err)

	organization := ""
	if d.Collaboration != nil && d.Collaboration.Participant != nil {
		organization = d.Collaboration.Participant.Name
	}
	if err := createParticipantMapping(d.Process); err != nil {
		return nil, err
	}
	if err := applyBPMNPreprocessing(
		d.Process,
		replaceInclusiveGateways,
		preprocessGateways,
		insertPlaceholdersBetweenTransitionNodes,
	); err != nil {
		return nil, err
	}
	net, err := transformProcessToNet(d.Process, true, organization)
	if err != nil {
		return nil, err
	}
	setGlobalToolspecific(net, d.Process.ParticipantMapping, organization)
	return &pnml.Document{Net: net}, nil
}

// BPMNFromPNML transforms a Petri-net document into a BPMN document.
func BPMNFromPNML(doc *pnml.Document) (d *bpmn.Definitions, err error) {
	defer recoverInternal(&err)

	net := doc.Net
	applyPNPreprocessing(
		net,
		addPlacesAtDanglingTransitions,
		expandWorkflowOperators,
		splitNamedANDTransitions,
		splitEventTriggers,
	)
	d, err = transformNetToBPMN(net)
	if err != nil {
		return nil, err
	}
	if hasResources(net) {
		if err := annotateResources(net, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// BPMNToSTNet parses a BPMN XML string and returns the standard Petri net as
// a PNML XML string.
func BPMNToSTNet(xmlContent string) (string, error) {
	d, err := bpmn.Parse(xmlContent)
	if err != nil {
		return "", err
	}
	doc, err := STNetFromBPMN(d)
	if err != nil {
		return "", err
	}
	return doc.ToXML()
}

// BPMNToWorkflowNet parses a BPMN XML string and returns the WOPED workflow
// net as a PNML XML string.
func BPMNToWorkflowNet(xmlContent string) (string, error) {
	d, err := bpmn.Parse(xmlContent)
	if err != nil {
		return "", err
	}
	doc, err := WorkflowNetFromBPMN(d)
	if err != nil {
		return "", err
	}
	return doc.ToXML()
}

// PNMLToBPMN parses a PNML XML string and returns the BPMN model as an XML
// string including placeholder diagram geometry.
func PNMLToBPMN(xmlContent string) (string, error) {
	doc, err := pnml.Parse(xmlContent)
	if err != nil {
		return "", err
	}
	d, err := BPMNFromPNML(doc)
	if err != nil {
		return "", err
	}
	return d.ToXML()
}
