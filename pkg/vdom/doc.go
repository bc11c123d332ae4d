// Package vdom provides the virtual tree data model used by the reconciler.
//
// A virtual tree is an in-memory description of the desired host tree. It is
// built fresh for every render pass and handed to the patch engine, which
// diffs it against the previous pass and stamps host handles onto the new
// nodes as they are materialized.
//
// # Core Types
//
// VNode is a closed sum over four kinds: Element, CustomElement, Comment and
// Text. The Kind field discriminates in O(1); every switch over it in this
// module is exhaustive. Data holds the attribute-like payload that module
// appliers consume. Handle is the non-owning reference from a VNode to its
// host node.
//
// # Construction
//
// NewElement, NewCustomElement, NewText and NewComment validate the node
// shape and return an InvalidNodeShape error (code R001) on violation.
// H and CE are panicking conveniences for literal trees:
//
//	H("ul", K("list"),
//	    H("li", K(1), Text("one")),
//	    H("li", K(2), Text("two")),
//	)
//
// # Identity
//
// SameNode reports whether two nodes may be patched in place: same kind,
// same selector and same key. Keys are mandatory on elements and forbidden
// on text and comment nodes.
package vdom
