package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeSpec is the type-specific configuration of a node. Each node type decodes
// its spec into its own variant so fields stay typed.
type NodeSpec interface {
	NodeType() NodeType
}

// Referencer is implemented by specs that name artifacts living outside the flow.
type Referencer interface {
	References() []Reference
}

// PortDeclarer is implemented by specs of dynamic node types that add their own ports.
type PortDeclarer interface {
	DeclaredPorts() []string
}

// ReferenceKind classifies an external artifact a node can point at.
type ReferenceKind string

const (
	ReferenceKindSchema      ReferenceKind = "schema"
	ReferenceKindErrorCode   ReferenceKind = "error_code"
	ReferenceKindEvent       ReferenceKind = "event"
	ReferenceKindFlow        ReferenceKind = "flow"
	ReferenceKindIntegration ReferenceKind = "integration"
)

// ReferenceKinds lists every reference kind in a stable order.
func ReferenceKinds() []ReferenceKind {
	return []ReferenceKind{
		ReferenceKindErrorCode,
		ReferenceKindEvent,
		ReferenceKindFlow,
		ReferenceKindIntegration,
		ReferenceKindSchema,
	}
}

// Reference is a named pointer from a node to an external artifact.
type Reference struct {
	Kind ReferenceKind
	Name string
}

// Trigger kinds known to the default catalog.
const (
	TriggerKindHTTP  = "http"
	TriggerKindCron  = "cron"
	TriggerKindEvent = "event"
)

type TriggerSpec struct {
	Kind     string `json:"kind"`
	Method   string `json:"method,omitempty"   validate:"omitempty,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	Path     string `json:"path,omitempty"     validate:"omitempty,startswith=/"`
	Schedule string `json:"schedule,omitempty"`
	Event    string `json:"event,omitempty"`
}

func (s *TriggerSpec) NodeType() NodeType { return NodeTypeTrigger }

// NormalizedKind returns the trigger kind lowercased, so "HTTP" and "http" match.
func (s *TriggerSpec) NormalizedKind() string {
	return strings.ToLower(strings.TrimSpace(s.Kind))
}

func (s *TriggerSpec) References() []Reference {
	if s.NormalizedKind() == TriggerKindEvent && s.Event != "" {
		return []Reference{{Kind: ReferenceKindEvent, Name: s.Event}}
	}

	return nil
}

type InputField struct {
	Name     string `json:"name"             validate:"required"`
	Type     string `json:"type"             validate:"required"`
	Required bool   `json:"required,omitempty"`
	Schema   string `json:"schema,omitempty"`
}

type InputSpec struct {
	Fields []InputField `json:"fields" validate:"dive"`
}

func (s *InputSpec) NodeType() NodeType { return NodeTypeInput }

func (s *InputSpec) References() []Reference {
	var refs []Reference

	for _, field := range s.Fields {
		if field.Schema != "" {
			refs = append(refs, Reference{Kind: ReferenceKindSchema, Name: field.Schema})
		}
	}

	return refs
}

type ProcessSpec struct {
	Action string `json:"action" validate:"required"`
}

func (s *ProcessSpec) NodeType() NodeType { return NodeTypeProcess }

type DecisionSpec struct {
	Condition string `json:"condition" validate:"required"`
}

func (s *DecisionSpec) NodeType() NodeType { return NodeTypeDecision }

type TerminalSpec struct {
	Status    int    `json:"status,omitempty"    validate:"omitempty,min=100,max=599"`
	ErrorCode string `json:"errorCode,omitempty"`
}

func (s *TerminalSpec) NodeType() NodeType { return NodeTypeTerminal }

func (s *TerminalSpec) References() []Reference {
	if s.ErrorCode == "" {
		return nil
	}

	return []Reference{{Kind: ReferenceKindErrorCode, Name: s.ErrorCode}}
}

type DataStoreSpec struct {
	Operation string `json:"operation" validate:"required,oneof=create read update delete upsert query"`
	Model     string `json:"model"     validate:"required"`
}

func (s *DataStoreSpec) NodeType() NodeType { return NodeTypeDataStore }

func (s *DataStoreSpec) References() []Reference {
	if s.Model == "" {
		return nil
	}

	return []Reference{{Kind: ReferenceKindSchema, Name: s.Model}}
}

type ServiceCallSpec struct {
	Integration string `json:"integration"      validate:"required"`
	Method      string `json:"method,omitempty"`
}

func (s *ServiceCallSpec) NodeType() NodeType { return NodeTypeServiceCall }

func (s *ServiceCallSpec) References() []Reference {
	if s.Integration == "" {
		return nil
	}

	return []Reference{{Kind: ReferenceKindIntegration, Name: s.Integration}}
}

// Event directions.
const (
	EventDirectionEmit    = "emit"
	EventDirectionConsume = "consume"
)

type EventSpec struct {
	Direction string `json:"direction" validate:"required,oneof=emit consume"`
	Event     string `json:"event"     validate:"required"`
}

func (s *EventSpec) NodeType() NodeType { return NodeTypeEvent }

// References only covers consumed events: emitting an event is what defines it.
func (s *EventSpec) References() []Reference {
	if s.Direction == EventDirectionConsume && s.Event != "" {
		return []Reference{{Kind: ReferenceKindEvent, Name: s.Event}}
	}

	return nil
}

type SubFlowSpec struct {
	FlowRef string `json:"flowRef" validate:"required"`
}

func (s *SubFlowSpec) NodeType() NodeType { return NodeTypeSubFlow }

func (s *SubFlowSpec) References() []Reference {
	if s.FlowRef == "" {
		return nil
	}

	return []Reference{{Kind: ReferenceKindFlow, Name: s.FlowRef}}
}

type ParallelSpec struct {
	Branches []string `json:"branches" validate:"min=1,dive,required"`
}

func (s *ParallelSpec) NodeType() NodeType      { return NodeTypeParallel }
func (s *ParallelSpec) DeclaredPorts() []string { return s.Branches }

type HumanGateSpec struct {
	Options []string `json:"options,omitempty" validate:"dive,required"`
}

func (s *HumanGateSpec) NodeType() NodeType      { return NodeTypeHumanGate }
func (s *HumanGateSpec) DeclaredPorts() []string { return s.Options }

type SmartRouterSpec struct {
	Routes []string `json:"routes" validate:"min=1,dive,required"`
}

func (s *SmartRouterSpec) NodeType() NodeType      { return NodeTypeSmartRouter }
func (s *SmartRouterSpec) DeclaredPorts() []string { return s.Routes }

type LLMCallSpec struct {
	Model     string `json:"model"               validate:"required"`
	PromptRef string `json:"promptRef,omitempty"`
}

func (s *LLMCallSpec) NodeType() NodeType { return NodeTypeLLMCall }

// GenericSpec keeps the raw fields of node types without a dedicated variant.
type GenericSpec struct {
	Type   NodeType       `json:"-"`
	Fields map[string]any `json:"fields,omitempty"`
}

func (s *GenericSpec) NodeType() NodeType { return s.Type }

var specFactories = map[NodeType]func() NodeSpec{
	NodeTypeTrigger:     func() NodeSpec { return &TriggerSpec{} },
	NodeTypeInput:       func() NodeSpec { return &InputSpec{} },
	NodeTypeProcess:     func() NodeSpec { return &ProcessSpec{} },
	NodeTypeDecision:    func() NodeSpec { return &DecisionSpec{} },
	NodeTypeTerminal:    func() NodeSpec { return &TerminalSpec{} },
	NodeTypeDataStore:   func() NodeSpec { return &DataStoreSpec{} },
	NodeTypeServiceCall: func() NodeSpec { return &ServiceCallSpec{} },
	NodeTypeEvent:       func() NodeSpec { return &EventSpec{} },
	NodeTypeSubFlow:     func() NodeSpec { return &SubFlowSpec{} },
	NodeTypeParallel:    func() NodeSpec { return &ParallelSpec{} },
	NodeTypeHumanGate:   func() NodeSpec { return &HumanGateSpec{} },
	NodeTypeSmartRouter: func() NodeSpec { return &SmartRouterSpec{} },
	NodeTypeLLMCall:     func() NodeSpec { return &LLMCallSpec{} },
}

// DecodeSpec converts the raw spec map of a node into the variant for its type.
// Types without a dedicated variant decode into a GenericSpec.
func DecodeSpec(nodeType NodeType, raw map[string]any) (NodeSpec, error) {
	factory, ok := specFactories[nodeType]
	if !ok {
		return &GenericSpec{Type: nodeType, Fields: raw}, nil
	}

	spec := factory()
	if len(raw) == 0 {
		return spec, nil
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode %s spec: %w", nodeType, err)
	}

	if err := json.Unmarshal(payload, spec); err != nil {
		return nil, fmt.Errorf("decode %s spec: %w", nodeType, err)
	}

	return spec, nil
}

// EmittedEvent returns the event a node publishes, if any.
func (n *Node) EmittedEvent() string {
	if spec, ok := n.Spec.(*EventSpec); ok && spec.Direction == EventDirectionEmit {
		return spec.Event
	}

	return ""
}

// ConsumedEvent returns the event a node listens to, if any.
func (n *Node) ConsumedEvent() string {
	switch spec := n.Spec.(type) {
	case *EventSpec:
		if spec.Direction == EventDirectionConsume {
			return spec.Event
		}
	case *TriggerSpec:
		if spec.NormalizedKind() == TriggerKindEvent {
			return spec.Event
		}
	}

	return ""
}
