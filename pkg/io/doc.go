// Package io writes walk results for machines and reads graphs back.
//
// # Reports
//
// [NewReport] flattens a walk into records, one per package in walk order,
// and [NewSourceSet] captures the assembled sources of a package. Both are
// written with [Write] in either [FormatJSON] or [FormatYAML]:
//
//	report := io.NewReport(graph)
//	err := io.Write(os.Stdout, io.FormatYAML, report)
//
// # Graphs
//
// [WriteGraph] serializes a [dag.DAG] as JSON and [ReadGraph] reads it back:
//
//	{
//	  "nodes": [
//	    {"id": "__project__", "kind": "virtual"},
//	    {"id": "bonzo@1.0.0", "meta": {"version": "1.0.0"}},
//	    {"id": "missing:ghost", "kind": "missing", "meta": {"name": "ghost"}}
//	  ],
//	  "edges": [
//	    {"from": "__project__", "to": "bonzo@1.0.0"},
//	    {"from": "bonzo@1.0.0", "to": "missing:ghost"}
//	  ]
//	}
//
// Node order, kinds and metadata survive the round trip. Cycles are
// allowed, since local installs may declare them.
//
// [dag.DAG]: github.com/ender-js/ender-package/pkg/dag.DAG
package io
