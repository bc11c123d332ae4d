// Package errors provides structured, coded errors for the reconciler.
//
// Every failure the engine surfaces carries a stable code (e.g., "R003")
// that maps to:
//   - A category (validation, reconcile, document, config, cli)
//   - A short message describing the error
//   - A detailed explanation
//
// # Error Codes
//
//	R001  invalid node shape          (validation)
//	R002  duplicate key among siblings (reconcile, warning only)
//	R003  hook subscriber failed      (reconcile, fatal to the patch)
//	R004  module applier failed       (reconcile, fatal to the patch)
//	R005  host primitive failed       (reconcile, fatal to the patch)
//	R010  invalid tree document       (document)
//	R020  invalid configuration       (config)
//
// # Usage
//
//	err := errors.New(errors.CodeHookFailure).
//	    WithDetail(`hook "insert" failed for <li>`).
//	    Wrap(cause)
//
//	if stderrors.Is(err, errors.ErrHookFailure) {
//	    // remount the subtree
//	}
package errors
