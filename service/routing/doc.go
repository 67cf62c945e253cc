// Package routing implements the risk and routing engine.  Given an immutable
// request snapshot, its vendor and its department budget, Engine.Classify
// derives the risk factors and the ordered list of approval steps the request
// has to pass.
//
// Rules are an ordered list of (step, predicate) pairs evaluated against the
// snapshot; each rule contributes its step independently and steps are always
// emitted in model.StepOrder.  The engine keeps no state between calls.
package routing
