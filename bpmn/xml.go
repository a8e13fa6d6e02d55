package bpmn

import (
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/woped/bpmn-pnml-transformer/errs"
)

// Namespace URIs emitted on serialized documents.
const (
	NamespaceModel  = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	NamespaceBpmndi = "http://www.omg.org/spec/BPMN/20100524/DI"
	NamespaceDc     = "http://www.omg.org/spec/DD/20100524/DC"
	NamespaceDi     = "http://www.omg.org/spec/DD/20100524/DI"
	NamespaceXsi    = "http://www.w3.org/2001/XMLSchema-instance"
)

// notSupportedElements lists the input tags rejected by the reader, lowercased.
var notSupportedElements = map[string]bool{
	"extensionelements":      true,
	"complexgateway":         true,
	"eventbasedgateway":      true,
	"sendtask":               true,
	"receivetask":            true,
	"manualtask":             true,
	"businessruletask":       true,
	"scripttask":             true,
	"callactivity":           true,
	"intermediatethrowevent": true,
	"boundaryevent":          true,
}

// Definitions is the root of a BPMN document: one top-level process and an
// optional collaboration holding the single global participant.
type Definitions struct {
	XMLName xml.Name `xml:"definitions"`
	ID      string   `xml:"id,attr,omitempty"`

	Xmlns       string `xml:"xmlns,attr,omitempty"`
	XmlnsBpmndi string `xml:"xmlns:bpmndi,attr,omitempty"`
	XmlnsDc     string `xml:"xmlns:dc,attr,omitempty"`
	XmlnsDi     string `xml:"xmlns:di,attr,omitempty"`
	XmlnsXsi    string `xml:"xmlns:xsi,attr,omitempty"`

	Collaboration *Collaboration `xml:"collaboration,omitempty"`
	Process       *Process       `xml:"process"`
	Diagram       *Diagram       `xml:"bpmndi:BPMNDiagram,omitempty"`
}

// NewDefinitions creates a document holding an empty executable process.
func NewDefinitions(processID string) *Definitions {
	p := NewProcess(processID)
	executable := true
	p.IsExecutable = &executable
	return &Definitions{Process: p}
}

// Parse decodes a BPMN document, rejecting unsupported element tags, and
// rebuilds the process indexes.
func Parse(content string) (*Definitions, error) {
	if err := checkSupportedTags(content); err != nil {
		return nil, err
	}
	var d Definitions
	if err := xml.Unmarshal([]byte(content), &d); err != nil {
		return nil, errs.InvalidInputXML()
	}
	if d.Process == nil {
		return nil, errs.InvalidInputXML()
	}
	d.Process.reindex()
	return &d, nil
}

// checkSupportedTags scans the raw token stream and collects every element
// tag on the unsupported list before any schema decoding happens.
func checkSupportedTags(content string) error {
	decoder := xml.NewDecoder(strings.NewReader(content))
	offending := map[string]bool{}
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errs.InvalidInputXML()
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		tag := strings.ToLower(start.Name.Local)
		if notSupportedElements[tag] {
			offending[tag] = true
		}
	}
	if len(offending) == 0 {
		return nil
	}
	tags := make([]string, 0, len(offending))
	for tag := range offending {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return errs.NotSupportedBPMNElement(tags...)
}

// ToXML attaches placeholder geometry and serializes the document, prefixing
// the XML header when absent.
func (d *Definitions) ToXML() (string, error) {
	d.Xmlns = NamespaceModel
	d.XmlnsBpmndi = NamespaceBpmndi
	d.XmlnsDc = NamespaceDc
	d.XmlnsDi = NamespaceDi
	d.XmlnsXsi = NamespaceXsi
	d.SetGraphics()

	out, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", errs.Internalf("marshal bpmn: %v", err)
	}
	return ensureXMLHeader(string(out)), nil
}

func ensureXMLHeader(content string) string {
	if strings.HasPrefix(content, "<?xml") {
		return content
	}
	return `<?xml version="1.0" encoding="UTF-8"?>` + content
}
