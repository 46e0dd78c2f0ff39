// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"strconv"

	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a node document with default values that can be overridden.
func CreateTestNode(id string, nodeType models.NodeType, overrides ...func(*models.NodeDocument)) models.NodeDocument {
	node := models.NodeDocument{
		ID:    id,
		Type:  string(nodeType),
		Label: "Test " + string(nodeType),
	}

	for _, override := range overrides {
		override(&node)
	}

	return node
}

// WithSpec sets the raw node spec.
func WithSpec(spec map[string]any) func(*models.NodeDocument) {
	return func(n *models.NodeDocument) {
		n.Spec = spec
	}
}

// WithConnection adds an inline connection from the node's port to a target.
// An empty port means the default port.
func WithConnection(port, target string) func(*models.NodeDocument) {
	return func(n *models.NodeDocument) {
		n.Connections = append(n.Connections, models.NodeConnectionDocument{
			TargetNodeID: target,
			SourceHandle: port,
		})
	}
}

// CreateTriggerNode creates a trigger node of the given kind wired to next.
func CreateTriggerNode(id, kind, next string) models.NodeDocument {
	overrides := []func(*models.NodeDocument){WithSpec(map[string]any{"kind": kind})}
	if next != "" {
		overrides = append(overrides, WithConnection("", next))
	}

	return CreateTestNode(id, models.NodeTypeTrigger, overrides...)
}

// CreateTerminalNode creates a terminal node.
func CreateTerminalNode(id string) models.NodeDocument {
	return CreateTestNode(id, models.NodeTypeTerminal, WithSpec(map[string]any{"status": 200}))
}

// CreateTestFlow creates a flow document from the given nodes.
func CreateTestFlow(id string, nodes ...models.NodeDocument) models.FlowDocument {
	if id == "" {
		id = uuid.New().String()
	}

	return models.FlowDocument{
		Flow:  models.FlowHeader{ID: id, Name: "Test flow " + id, Domain: "test"},
		Nodes: nodes,
	}
}

// CreateValidFlow creates a trigger -> process -> terminal flow without findings.
func CreateValidFlow(id string) models.FlowDocument {
	return CreateTestFlow(id,
		CreateTriggerNode("start", "http", "work"),
		CreateTestNode("work", models.NodeTypeProcess,
			WithSpec(map[string]any{"action": "do the work"}),
			WithConnection("", "done"),
		),
		CreateTerminalNode("done"),
	)
}

// CreateFlowWithTypes creates a valid linear flow passing through one node of
// each given single-port type. Types must have exactly the "default" port.
func CreateFlowWithTypes(id string, types ...models.NodeType) models.FlowDocument {
	nodes := make([]models.NodeDocument, 0, len(types)+2)
	next := "done"

	if len(types) > 0 {
		next = "n0"
	}

	nodes = append(nodes, CreateTriggerNode("start", "http", next))

	for i, nodeType := range types {
		target := "done"
		if i+1 < len(types) {
			target = "n" + strconv.Itoa(i+1)
		}

		nodes = append(nodes, CreateTestNode("n"+strconv.Itoa(i), nodeType, WithConnection("", target)))
	}

	nodes = append(nodes, CreateTerminalNode("done"))

	return CreateTestFlow(id, nodes...)
}

// CreateTestConnection creates a connection from a node port to a target.
func CreateTestConnection(sourceNodeID, port, targetNodeID string) models.Connection {
	return models.Connection{
		ID:     uuid.New().String(),
		Source: models.PortRef{NodeID: sourceNodeID, Port: port},
		Target: targetNodeID,
	}
}
