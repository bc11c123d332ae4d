// Package hooks dispatches the five lifecycle hooks of the patch engine.
//
// Subscribers are plain values implementing any subset of CreateHook,
// InsertHook, MoveHook, UpdateHook and RemoveHook. They are fixed when the
// Dispatcher is built and always run in registration order:
//
//	d := hooks.New(
//	    bookkeeping,                // implements CreateHook and RemoveHook
//	    hooks.Funcs{Insert: onInsert},
//	)
//
// The engine invokes hooks at fixed points:
//
//	create  after host creation and module create, before children
//	insert  after the node and its subtree are attached, children first
//	move    after an existing node changes position in its parent
//	update  after module update, before children or text are reconciled
//	remove  after a top-level removed node is detached
//
// The first subscriber error stops dispatch and is returned as a
// HookFailure (code R003).
package hooks
