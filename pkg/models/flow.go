package models

// FlowHeader identifies a flow inside a project.
type FlowHeader struct {
	ID     string `json:"id"               yaml:"id"               validate:"required"`
	Name   string `json:"name,omitempty"   yaml:"name,omitempty"`
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// NodeConnectionDocument is a connection declared inline on its source node.
type NodeConnectionDocument struct {
	TargetNodeID string `json:"targetNodeId"           yaml:"targetNodeId"           validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
}

// ConnectionDocument is a connection declared in the flow-level list.
type ConnectionDocument struct {
	ID           string `json:"id,omitempty"           yaml:"id,omitempty"`
	From         string `json:"from"                   yaml:"from"                   validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	To           string `json:"to"                     yaml:"to"                     validate:"required"`
}

// NodeDocument is a node as written in a flow file, before its spec is decoded.
type NodeDocument struct {
	ID          string                   `json:"id"                    yaml:"id"`
	Type        string                   `json:"type"                  yaml:"type"`
	Label       string                   `json:"label,omitempty"       yaml:"label,omitempty"`
	Spec        map[string]any           `json:"spec,omitempty"        yaml:"spec,omitempty"`
	Connections []NodeConnectionDocument `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// FlowDocument is one parsed flow description.
type FlowDocument struct {
	Flow        FlowHeader           `json:"flow"                  yaml:"flow"                  validate:"required"`
	Nodes       []NodeDocument       `json:"nodes"                 yaml:"nodes"`
	Connections []ConnectionDocument `json:"connections,omitempty" yaml:"connections,omitempty"`

	// Source is the file the document came from, when loaded from disk.
	Source string `json:"-" yaml:"-"`
}

// ID returns the flow id.
func (d *FlowDocument) ID() string {
	return d.Flow.ID
}

// AllConnections flattens inline node connections and the flow-level list
// into one slice, in document order. A flow-level `from` may name the port
// itself ("check:true") when sourceHandle is omitted. Otherwise a missing
// sourceHandle means DefaultPort.
func (d *FlowDocument) AllConnections() []Connection {
	conns := make([]Connection, 0, len(d.Connections))

	for _, node := range d.Nodes {
		for _, c := range node.Connections {
			conns = append(conns, Connection{
				Source: PortRef{NodeID: node.ID, Port: portOrDefault(c.SourceHandle)},
				Target: c.TargetNodeID,
			})
		}
	}

	for _, c := range d.Connections {
		from, handle := c.From, c.SourceHandle
		if handle == "" {
			if nodeID, port, ok := ParsePortID(from); ok {
				from, handle = nodeID, port
			}
		}

		conns = append(conns, Connection{
			ID:     c.ID,
			Source: PortRef{NodeID: from, Port: portOrDefault(handle)},
			Target: c.To,
		})
	}

	return conns
}

func portOrDefault(handle string) string {
	if handle == "" {
		return DefaultPort
	}

	return handle
}
