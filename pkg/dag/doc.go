// Package dag provides the graph model used to export dependency walks.
//
// # Overview
//
// A walk produces an ordered list of packages; [DAG] keeps the structure
// between them so it can be drawn or serialized. Nodes are resolved
// packages ([NodeKindPackage]), unresolved dependencies
// ([NodeKindMissing]) and synthetic helpers such as the node standing for
// the requested names ([NodeKindVirtual]).
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "app@1.0.0"})
//	g.AddNode(dag.Node{ID: "bonzo@2.0.1"})
//	g.AddEdge(dag.Edge{From: "app@1.0.0", To: "bonzo@2.0.1"})
//
// [DAG.Nodes], [DAG.Edges] and [DAG.Sources] return nodes and edges in
// insertion order, which keeps exports stable.
//
// # Cycles
//
// Local installs can declare circular dependencies. The graph accepts them;
// [DAG.BackEdges] reports the edges closing each cycle and [DAG.Validate]
// fails with [ErrGraphHasCycle] when there is any.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
package dag
