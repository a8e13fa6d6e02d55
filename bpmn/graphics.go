package bpmn

// Placeholder diagram geometry. The core does not lay out diagrams; it only
// attaches the shapes and edges WOPED and other editors expect to find.

// Bounds is a dc:Bounds rectangle.
type Bounds struct {
	X      int `xml:"x,attr"`
	Y      int `xml:"y,attr"`
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

// Waypoint is a di:waypoint of an edge.
type Waypoint struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// Label is a bpmndi:BPMNLabel block.
type Label struct {
	Bounds *Bounds `xml:"dc:Bounds,omitempty"`
}

// Shape is the graphical representation of a flow node.
type Shape struct {
	ID          string  `xml:"id,attr"`
	BpmnElement string  `xml:"bpmnElement,attr"`
	IsExpanded  *bool   `xml:"isExpanded,attr,omitempty"`
	Bounds      *Bounds `xml:"dc:Bounds"`
	Label       *Label  `xml:"bpmndi:BPMNLabel,omitempty"`
}

// Edge is the graphical representation of a sequence flow.
type Edge struct {
	ID          string     `xml:"id,attr"`
	BpmnElement string     `xml:"bpmnElement,attr"`
	Waypoints   []Waypoint `xml:"di:waypoint"`
	Label       *Label     `xml:"bpmndi:BPMNLabel,omitempty"`
}

// Plane holds the shapes and edges of one diagram.
type Plane struct {
	ID          string   `xml:"id,attr"`
	BpmnElement string   `xml:"bpmnElement,attr"`
	Shapes      []*Shape `xml:"bpmndi:BPMNShape"`
	Edges       []*Edge  `xml:"bpmndi:BPMNEdge"`
}

// Diagram is the trailing bpmndi:BPMNDiagram block of a document.
type Diagram struct {
	ID    string `xml:"id,attr"`
	Plane *Plane `xml:"bpmndi:BPMNPlane,omitempty"`
}

// SetGraphics replaces the document diagram with placeholder geometry for
// every flow and node of the top-level process.
func (d *Definitions) SetGraphics() {
	process := d.Process
	plane := &Plane{ID: "plane" + process.ID, BpmnElement: process.ID}
	for _, flow := range process.Flows {
		plane.Edges = append(plane.Edges, &Edge{
			ID:          flow.ID + "_di",
			BpmnElement: flow.ID,
			Waypoints:   []Waypoint{{}, {}},
		})
	}
	for _, node := range process.AllNodes() {
		shape := &Shape{
			ID:          node.GetID() + "_di",
			BpmnElement: node.GetID(),
			Bounds:      &Bounds{Width: 100, Height: 80},
		}
		switch node.(type) {
		case *Process:
			expanded := true
			shape.IsExpanded = &expanded
		case *Task, *UserTask, *ServiceTask:
			// tasks render their name inside the shape
		default:
			if node.GetName() != "" {
				shape.Label = &Label{Bounds: &Bounds{Width: 50, Height: 20}}
			}
		}
		plane.Shapes = append(plane.Shapes, shape)
	}
	d.Diagram = &Diagram{ID: "diagram1", Plane: plane}
}
