package pnml

import (
	"encoding/xml"
	"strings"

	"github.com/woped/bpmn-pnml-transformer/errs"
)

// Document is the root of a PNML file.
type Document struct {
	XMLName xml.Name `xml:"pnml"`
	Net     *Net     `xml:"net"`
}

// NewDocument creates a document holding an empty net.
func NewDocument(netID string) *Document {
	return &Document{Net: NewNet(netID)}
}

// Parse decodes a PNML document and rebuilds the net indexes.
func Parse(content string) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, errs.InvalidInputXML()
	}
	if doc.Net == nil {
		return nil, errs.InvalidInputXML()
	}
	doc.Net.reindex()
	return &doc, nil
}

// ToXML serializes the document, prefixing the XML header when absent.
func (d *Document) ToXML() (string, error) {
	out, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", errs.Internalf("marshal pnml: %v", err)
	}
	return EnsureXMLHeader(string(out)), nil
}

// EnsureXMLHeader prepends the XML declaration when the content lacks one.
func EnsureXMLHeader(content string) string {
	if strings.HasPrefix(content, "<?xml") {
		return content
	}
	return `<?xml version="1.0" encoding="UTF-8"?>` + content
}
