// Package patch implements the diff/patch engine: it walks an old and a new
// virtual tree and drives the host through the minimal set of mutations
// that makes the host tree match the new one.
//
// # Entry Point
//
//	eng := patch.New(arena,
//	    patch.WithModules(modules.Default(arena)...),
//	    patch.WithHooks(bookkeeping),
//	)
//	elm, err := eng.Patch(ctx, container, prev, next)
//
// prev == nil mounts next under container. next == nil unmounts prev.
// Otherwise the roots are patched in place when they are the same node
// (same kind, selector and key) and replaced when they are not.
//
// # Children
//
// Lists without any key are reconciled by position. Lists with at least
// one key use the four-pointer comparison (start/start, end/end,
// start/end, end/start) with a key index fallback. Unkeyed nodes inside a
// keyed list are paired by their order among unkeyed siblings. Duplicate
// keys are logged; only the first occurrence can be matched.
//
// # Failure
//
// The engine is synchronous and not safe for concurrent use on overlapping
// subtrees. The first hook, applier or host error aborts the patch and is
// returned; mutations already applied are not rolled back, so callers
// should remount the subtree.
package patch
