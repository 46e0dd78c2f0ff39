package validator

import (
	"fmt"
	"slices"

	"github.com/dukex/ddd-validator/pkg/graph"
	"github.com/dukex/ddd-validator/pkg/models"
)

func finding(g *graph.FlowGraph, severity models.Severity, code models.FindingCode, nodeID, format string, args ...any) models.Finding {
	return models.Finding{
		Severity: severity,
		Code:     code,
		FlowID:   g.ID(),
		NodeID:   nodeID,
		Message:  fmt.Sprintf(format, args...),
	}
}

// checkTriggerCardinality emits at most one finding however many triggers exist.
func checkTriggerCardinality(g *graph.FlowGraph) []models.Finding {
	triggers := g.Triggers()
	if len(triggers) == 1 {
		return nil
	}

	if len(triggers) == 0 {
		return []models.Finding{finding(g, models.SeverityError, models.CodeTriggerCardinality, "",
			"flow has no trigger node, exactly one is required")}
	}

	ids := make([]string, len(triggers))
	for i, t := range triggers {
		ids[i] = t.ID
	}

	return []models.Finding{finding(g, models.SeverityError, models.CodeTriggerCardinality, "",
		"flow has %d trigger nodes %v, exactly one is required", len(triggers), ids)}
}

func checkReachability(g *graph.FlowGraph) []models.Finding {
	root, ok := g.Root()
	if !ok {
		return nil
	}

	var findings []models.Finding

	for _, node := range g.Nodes() {
		if !g.IsReachable(node.ID) {
			findings = append(findings, finding(g, models.SeverityError, models.CodeOrphanNode, node.ID,
				"%s node %q is not reachable from trigger %q", node.Type, node.ID, root.ID))
		}
	}

	return findings
}

func checkDeadEnds(g *graph.FlowGraph) []models.Finding {
	var findings []models.Finding

	for _, node := range g.ReachableNodes() {
		if !g.ReachesTerminal(node.ID) {
			findings = append(findings, finding(g, models.SeverityError, models.CodeDeadEnd, node.ID,
				"no path leads from %s node %q to a terminal node", node.Type, node.ID))
		}
	}

	return findings
}

// checkPorts compares every node's contract ports with the ports its
// connections actually use. Each contract port must be wired exactly once.
func checkPorts(g *graph.FlowGraph) []models.Finding {
	var findings []models.Finding

	for _, node := range g.Nodes() {
		contract := g.OutgoingPorts(node.ID)
		outgoing := g.Outgoing(node.ID)

		wired := make(map[string]int, len(outgoing))
		for _, conn := range outgoing {
			wired[conn.Source.Port]++
		}

		for _, port := range contract {
			switch count := wired[port]; {
			case count == 0:
				findings = append(findings, finding(g, models.SeverityError, models.CodeUnwiredPort, node.ID,
					"port %q of %s node %q is not connected", port, node.Type, node.ID))
			case count > 1:
				findings = append(findings, finding(g, models.SeverityError, models.CodeAmbiguousPort, node.ID,
					"port %q of %s node %q is connected %d times, expected once", port, node.Type, node.ID, count))
			}
		}

		for _, conn := range outgoing {
			if slices.Contains(contract, conn.Source.Port) {
				continue
			}

			if node.IsTerminal() {
				findings = append(findings, finding(g, models.SeverityError, models.CodeUnknownPort, node.ID,
					"terminal node %q cannot have outgoing connections (port %q to %q)", node.ID, conn.Source.Port, conn.Target))

				continue
			}

			findings = append(findings, finding(g, models.SeverityError, models.CodeUnknownPort, node.ID,
				"port %q to %q is not declared by %s nodes (expected one of %v)", conn.Source.Port, conn.Target, node.Type, contract))
		}
	}

	return findings
}

func checkDanglingConnections(g *graph.FlowGraph) []models.Finding {
	var findings []models.Finding

	for _, conn := range g.DanglingConnections() {
		_, sourceExists := g.Node(conn.Source.NodeID)

		missing := conn.Target
		if !sourceExists {
			missing = conn.Source.NodeID
		}

		findings = append(findings, finding(g, models.SeverityError, models.CodeDanglingConnection, conn.Source.NodeID,
			"connection %s -> %s references missing node %q", conn.Source.ID(), conn.Target, missing))
	}

	return findings
}
