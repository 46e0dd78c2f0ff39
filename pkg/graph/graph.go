// Package graph builds the immutable in-memory model of one flow: its nodes,
// their contract ports and the connections between them.
package graph

import (
	"fmt"
	"slices"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/models"
)

// FlowGraph is a validated-to-parse flow. It is never mutated after Build, so
// any number of goroutines may query it at once. Nodes returned by its methods
// must be treated as read-only.
type FlowGraph struct {
	id          string
	nodes       []*models.Node
	index       map[string]int
	connections []models.Connection
	dangling    []models.Connection
	outgoing    map[string][]models.Connection
	contracts   map[string][]string

	reachable       map[string]bool
	reachesTerminal map[string]bool
}

// BuildDocument builds the graph of a parsed flow document.
func BuildDocument(doc *models.FlowDocument, cat *catalog.Catalog) (*FlowGraph, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	return Build(doc.ID(), doc.Nodes, doc.AllConnections(), cat)
}

// Build checks node ids and types against the catalog, decodes every node spec
// and indexes the connections. It fails with a *ParseError on duplicate ids,
// unknown types or undecodable specs. Connections whose endpoints do not exist
// are kept aside and reported by the validator instead.
func Build(flowID string, nodeDocs []models.NodeDocument, conns []models.Connection, cat *catalog.Catalog) (*FlowGraph, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}

	g := &FlowGraph{
		id:        flowID,
		nodes:     make([]*models.Node, 0, len(nodeDocs)),
		index:     make(map[string]int, len(nodeDocs)),
		outgoing:  make(map[string][]models.Connection),
		contracts: make(map[string][]string, len(nodeDocs)),
	}

	for _, doc := range nodeDocs {
		node, err := decodeNode(flowID, doc, cat)
		if err != nil {
			return nil, err
		}

		if _, exists := g.index[node.ID]; exists {
			return nil, &ParseError{
				Kind:   KindDuplicateNodeID,
				FlowID: flowID,
				NodeID: node.ID,
				Msg:    fmt.Sprintf("node id %q is used more than once", node.ID),
			}
		}

		g.index[node.ID] = len(g.nodes)
		g.nodes = append(g.nodes, node)
		g.contracts[node.ID] = contractPorts(node, cat)
	}

	for _, conn := range conns {
		if !g.hasNode(conn.Source.NodeID) || !g.hasNode(conn.Target) {
			g.dangling = append(g.dangling, conn)

			continue
		}

		g.connections = append(g.connections, conn)
		g.outgoing[conn.Source.NodeID] = append(g.outgoing[conn.Source.NodeID], conn)
	}

	g.reachable = g.forwardFromRoot()
	g.reachesTerminal = g.backwardFromTerminals()

	return g, nil
}

func decodeNode(flowID string, doc models.NodeDocument, cat *catalog.Catalog) (*models.Node, error) {
	if doc.ID == "" {
		return nil, &ParseError{
			Kind:   KindMissingNodeID,
			FlowID: flowID,
			Msg:    fmt.Sprintf("node of type %q has no id", doc.Type),
		}
	}

	nodeType := models.NodeType(doc.Type)
	if !cat.Has(nodeType) {
		return nil, &ParseError{
			Kind:   KindUnknownNodeType,
			FlowID: flowID,
			NodeID: doc.ID,
			Msg:    fmt.Sprintf("node type %q is not in the catalog", doc.Type),
		}
	}

	spec, err := models.DecodeSpec(nodeType, doc.Spec)
	if err != nil {
		return nil, &ParseError{
			Kind:   KindInvalidSpec,
			FlowID: flowID,
			NodeID: doc.ID,
			Msg:    "node spec does not match its type",
			Err:    err,
		}
	}

	return &models.Node{
		ID:    doc.ID,
		Type:  nodeType,
		Label: doc.Label,
		Spec:  spec,
	}, nil
}

func contractPorts(node *models.Node, cat *catalog.Catalog) []string {
	ports := cat.Ports(node.Type)

	if !cat.IsDynamic(node.Type) {
		return ports
	}

	declarer, ok := node.Spec.(models.PortDeclarer)
	if !ok {
		return ports
	}

	for _, port := range declarer.DeclaredPorts() {
		if port != "" && !slices.Contains(ports, port) {
			ports = append(ports, port)
		}
	}

	return ports
}

// ID returns the flow id.
func (g *FlowGraph) ID() string {
	return g.id
}

// Nodes returns the nodes in document order.
func (g *FlowGraph) Nodes() []*models.Node {
	return slices.Clone(g.nodes)
}

// Node looks a node up by id.
func (g *FlowGraph) Node(id string) (*models.Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}

	return g.nodes[i], true
}

func (g *FlowGraph) hasNode(id string) bool {
	_, ok := g.index[id]

	return ok
}

// Connections returns the connections whose endpoints both exist, in document order.
func (g *FlowGraph) Connections() []models.Connection {
	return slices.Clone(g.connections)
}

// DanglingConnections returns the connections that name a node missing from the flow.
func (g *FlowGraph) DanglingConnections() []models.Connection {
	return slices.Clone(g.dangling)
}

// Outgoing returns the connections sourced from a node.
func (g *FlowGraph) Outgoing(nodeID string) []models.Connection {
	return slices.Clone(g.outgoing[nodeID])
}

// OutgoingPorts returns the contract ports a node must wire, as declared by its type.
func (g *FlowGraph) OutgoingPorts(nodeID string) []string {
	return slices.Clone(g.contracts[nodeID])
}

// Triggers returns the trigger nodes in document order.
func (g *FlowGraph) Triggers() []*models.Node {
	var triggers []*models.Node

	for _, node := range g.nodes {
		if node.IsTrigger() {
			triggers = append(triggers, node)
		}
	}

	return triggers
}

// Root returns the trigger traversal starts from: the first trigger in
// document order. It reports false when the flow has no trigger.
func (g *FlowGraph) Root() (*models.Node, bool) {
	for _, node := range g.nodes {
		if node.IsTrigger() {
			return node, true
		}
	}

	return nil, false
}

// IsReachable reports whether a node can be reached from the root trigger.
func (g *FlowGraph) IsReachable(nodeID string) bool {
	return g.reachable[nodeID]
}

// ReachesTerminal reports whether some path leads from the node to a terminal.
func (g *FlowGraph) ReachesTerminal(nodeID string) bool {
	return g.reachesTerminal[nodeID]
}

// ReachableNodes returns the nodes reachable from the root, in document order.
func (g *FlowGraph) ReachableNodes() []*models.Node {
	var nodes []*models.Node

	for _, node := range g.nodes {
		if g.reachable[node.ID] {
			nodes = append(nodes, node)
		}
	}

	return nodes
}
