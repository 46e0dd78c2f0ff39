// Package models defines the flow, node and report models shared by the validator packages.
package models

// NodeType is the closed enumeration of steps a flow can contain.
type NodeType string

const (
	NodeTypeTrigger      NodeType = "trigger"
	NodeTypeInput        NodeType = "input"
	NodeTypeProcess      NodeType = "process"
	NodeTypeDecision     NodeType = "decision"
	NodeTypeTerminal     NodeType = "terminal"
	NodeTypeDataStore    NodeType = "data_store"
	NodeTypeServiceCall  NodeType = "service_call"
	NodeTypeEvent        NodeType = "event"
	NodeTypeLoop         NodeType = "loop"
	NodeTypeParallel     NodeType = "parallel"
	NodeTypeCollection   NodeType = "collection"
	NodeTypeParse        NodeType = "parse"
	NodeTypeCrypto       NodeType = "crypto"
	NodeTypeBatch        NodeType = "batch"
	NodeTypeTransaction  NodeType = "transaction"
	NodeTypeCache        NodeType = "cache"
	NodeTypeDelay        NodeType = "delay"
	NodeTypeTransform    NodeType = "transform"
	NodeTypeSubFlow      NodeType = "sub_flow"
	NodeTypeLLMCall      NodeType = "llm_call"
	NodeTypeAgentLoop    NodeType = "agent_loop"
	NodeTypeGuardrail    NodeType = "guardrail"
	NodeTypeHumanGate    NodeType = "human_gate"
	NodeTypeOrchestrator NodeType = "orchestrator"
	NodeTypeSmartRouter  NodeType = "smart_router"
	NodeTypeHandoff      NodeType = "handoff"
	NodeTypeAgentGroup   NodeType = "agent_group"
	NodeTypeIPCCall      NodeType = "ipc_call"
)

// DefaultPort is the port used by connections that omit a sourceHandle.
const DefaultPort = "default"

// Node is one step of a flow after its spec has been decoded.
type Node struct {
	ID    string   `json:"id"             validate:"required"`
	Type  NodeType `json:"type"           validate:"required"`
	Label string   `json:"label,omitempty"`
	Spec  NodeSpec `json:"-"`
}

// IsTrigger reports whether the node starts a flow.
func (n *Node) IsTrigger() bool {
	return n.Type == NodeTypeTrigger
}

// IsTerminal reports whether the node ends a flow.
func (n *Node) IsTerminal() bool {
	return n.Type == NodeTypeTerminal
}

// TriggerKind returns the declared kind of a trigger node, or "" for any other node.
func (n *Node) TriggerKind() string {
	if spec, ok := n.Spec.(*TriggerSpec); ok {
		return spec.Kind
	}

	return ""
}

// Connection is a directed edge from a node's output port to another node.
type Connection struct {
	ID     string  `json:"id,omitempty"`
	Source PortRef `json:"source"`
	Target string  `json:"target" validate:"required"`
}
