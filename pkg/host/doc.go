// Package host defines the host-tree primitives the patch engine drives and
// provides Arena, an in-memory host used by tests, the vdiff CLI and the
// inspection server.
//
// The engine never owns host nodes. It only holds vdom.Handle values that
// the host hands out, so any tree that can name its nodes with a small
// integer can sit behind Host.
//
// Module appliers reach the host through narrow capability interfaces
// (AttrHost, PropHost, ClassHost, StyleHost, ListenerHost, ContextHost).
// Arena implements all of them and records every mutation in a Journal.
package host
