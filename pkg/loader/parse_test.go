package loader

import (
	"errors"
	"testing"

	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createOrder = `
flow:
  id: create-order
  name: Create order
  domain: orders
nodes:
  - id: t1
    type: trigger
    spec: {kind: HTTP, method: POST, path: /orders}
    connections: [{targetNodeId: in1}]
  - id: in1
    type: input
    spec:
      fields:
        - {name: sku, type: string, required: true}
  - id: end
    type: terminal
connections:
  - {from: in1, sourceHandle: valid, to: end}
  - {from: in1, sourceHandle: invalid, to: end}
`

func TestParseFlow(t *testing.T) {
	doc, err := ParseFlow([]byte(createOrder))
	require.NoError(t, err)

	assert.Equal(t, "create-order", doc.ID())
	assert.Equal(t, "orders", doc.Flow.Domain)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "HTTP", doc.Nodes[0].Spec["kind"])

	conns := doc.AllConnections()
	require.Len(t, conns, 3)
	assert.Equal(t, models.PortRef{NodeID: "t1", Port: models.DefaultPort}, conns[0].Source)
	assert.Equal(t, "in1", conns[0].Target)
	assert.Equal(t, "invalid", conns[2].Source.Port)
}

const checkStock = `
flow: {id: check-stock}
nodes:
  - id: t1
    type: trigger
    spec: {kind: http}
    connections: [{targetNodeId: d}]
  - id: d
    type: decision
    spec: {condition: "stock > 0"}
    connections:
      - {targetNodeId: ok, sourceHandle: true}
  - id: ok
    type: terminal
  - id: ko
    type: terminal
connections:
  - {from: d, sourceHandle: false, to: ko}
  - {from: ok, sourceHandle: 1, to: ko}
`

func TestParseFlow_ScalarHandles(t *testing.T) {
	doc, err := ParseFlow([]byte(checkStock))
	require.NoError(t, err)

	conns := doc.AllConnections()
	require.Len(t, conns, 4)
	assert.Equal(t, models.PortRef{NodeID: "d", Port: "true"}, conns[1].Source)
	assert.Equal(t, models.PortRef{NodeID: "d", Port: "false"}, conns[2].Source)
	assert.Equal(t, "1", conns[3].Source.Port)
}

func TestParseFlow_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "not yaml", data: "flow: [unclosed", wantMsg: "yaml"},
		{name: "empty", data: "", wantMsg: "empty"},
		{name: "scalar", data: "just a string", wantMsg: "object"},
		{name: "missing nodes", data: "flow: {id: x}", wantMsg: "nodes"},
		{name: "missing flow id", data: "flow: {name: x}\nnodes: []", wantMsg: "id"},
		{name: "node without type", data: "flow: {id: x}\nnodes: [{id: a}]", wantMsg: "type"},
		{name: "connection without target", data: "flow: {id: x}\nnodes: []\nconnections: [{from: a}]", wantMsg: "to"},
		{name: "list handle", data: "flow: {id: x}\nnodes: []\nconnections: [{from: a, to: b, sourceHandle: [x]}]", wantMsg: "sourceHandle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlow([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, IsInvalidFlow(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadError(t *testing.T) {
	err := NewLoadError("ParseFlow", "specs/domains/orders/flows/x.yaml", ErrInvalidFlow)

	assert.True(t, IsInvalidFlow(err))
	assert.False(t, IsProjectNotFound(err))
	assert.Equal(t, "ParseFlow failed for specs/domains/orders/flows/x.yaml: invalid flow document", err.Error())

	err.Message = "bad shape"
	assert.Contains(t, err.Error(), "bad shape")

	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}
