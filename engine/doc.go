// Package engine interprets a parsed [lang.Script].
//
// An [Engine] resolves invocation tokens to a top-level node through its
// [Registry], then executes that node's statements against one shared,
// mutable [Env]. Execution is synchronous and depth-first: a node's own
// statements always run first, then either the single sub-node named by the
// next path segment or, when no path was given, every sub-node in
// declaration order.
//
// Side effects leave the engine through two capabilities supplied by the
// caller: a [Shell] that runs expanded command text, and a [Sink] that
// receives diagnostic events ([exec], [set], [param], [depends], [error] and
// captured output). Failures of individual commands are reported and
// execution continues.
package engine
