// Package transform implements the bidirectional converter between BPMN
// process models and WOPED workflow nets.
//
// Each direction runs a sequence of structure-rewriting preprocessing passes
// followed by a single-pass mapping guided by node type, degree and
// toolspecific annotations:
//
//   - BPMN to Petri net: OR gateways are rewritten into AND/XOR bypasses,
//     subprocesses are flattened (standard mode) or emitted as pages
//     (workflow mode), degenerate gateways are removed and transition-like
//     adjacencies padded with placeholder nodes before the transform pass
//     emits places, transitions and operator groups.
//   - Petri net to BPMN: dangling transitions are capped with places,
//     workflow operator groups expand into gateway helpers (named groups gain
//     an explicit task), named AND transitions split, event triggers
//     externalize into helper nodes, and postprocessing removes silent tasks
//     and unnecessary gateways from the result.
//
// A transform consumes its input graph and produces a new one; no state is
// shared across calls. Structural and policy violations surface as typed
// errors from the errs package; invariant violations inside the store are
// internal errors.
package transform
