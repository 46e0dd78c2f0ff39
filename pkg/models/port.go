package models

import "strings"

// PortRef identifies an output port on a node.
type PortRef struct {
	NodeID string `json:"node_id" validate:"required"`
	Port   string `json:"port"`
}

// ID returns the port id in "{node_id}:{port_name}" form.
func (p PortRef) ID() string {
	return MakePortID(p.NodeID, p.Port)
}

// ParsePortID splits a "{node_id}:{port_name}" id at its first colon. An id
// without a colon or with an empty node part is not a port id.
func ParsePortID(portID string) (string, string, bool) {
	nodeID, port, ok := strings.Cut(portID, ":")
	if !ok || nodeID == "" {
		return "", "", false
	}

	return nodeID, port, true
}

// MakePortID creates a port ID from node ID and port name.
func MakePortID(nodeID, portName string) string {
	return nodeID + ":" + portName
}
