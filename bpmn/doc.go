// Package bpmn implements the BPMN graph model: a document owning one
// top-level process (and optionally a collaboration with its single
// participant), typed flow nodes, directed sequence flows and lane sets.
//
// The Process container keeps id-indexed lookups for nodes and flows, the
// incoming/outgoing adjacency of every node and the per-node flow-id caches
// consistent across all mutations. Nested processes are subprocesses and act
// as flow nodes of their parent.
//
// The XML codec rejects documents containing unsupported element tags and
// emits placeholder diagram geometry on output; incoming diagram blocks are
// ignored.
package bpmn
