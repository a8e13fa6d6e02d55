// Package pnml implements the Petri-net graph model in the WOPED workflow-net
// dialect: places, transitions, directed arcs, nested pages and the
// toolspecific annotation block (workflow operators, triggers, resources,
// subprocess markers).
//
// The Net container keeps id-indexed lookups for nodes and arcs and the
// incoming/outgoing adjacency of every node consistent across all mutations.
// Cross-references are stored by id rather than by pointer, so cyclic nets
// need no special handling.
//
// Besides the serializable node kinds, the package defines four helper node
// kinds (XORHelper, ANDHelper, TimeHelper, MessageHelper) used by the
// transformation passes as placeholders for gateways and triggers. They live
// outside the place and transition sets and cannot appear in PNML output.
package pnml
