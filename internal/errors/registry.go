package errors

// Registered error codes.
const (
	CodeInvalidNodeShape = "R001"
	CodeDuplicateKey     = "R002"
	CodeHookFailure      = "R003"
	CodeModuleApplier    = "R004"
	CodeHostFailure      = "R005"
	CodeInvalidDocument  = "R010"
	CodeInvalidConfig    = "R020"
)

// Sentinels for errors.Is. They carry only a code.
var (
	ErrInvalidNodeShape = &Error{Code: CodeInvalidNodeShape}
	ErrDuplicateKey     = &Error{Code: CodeDuplicateKey}
	ErrHookFailure      = &Error{Code: CodeHookFailure}
	ErrModuleApplier    = &Error{Code: CodeModuleApplier}
	ErrHost             = &Error{Code: CodeHostFailure}
	ErrInvalidDocument  = &Error{Code: CodeInvalidDocument}
	ErrInvalidConfig    = &Error{Code: CodeInvalidConfig}
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
	Fatal      bool
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Node Model Errors (R001-R009)
	// ============================================

	CodeInvalidNodeShape: {
		Category:   CategoryValidation,
		Message:    "Invalid node shape",
		Suggestion: "Build nodes with vdom.NewElement, vdom.NewText, vdom.NewComment or vdom.NewCustomElement.",
	},
	CodeDuplicateKey: {
		Category:   CategoryReconcile,
		Message:    "Duplicate key among siblings",
		Suggestion: "Keys must be unique within one children list. Later duplicates are recreated instead of moved.",
	},
	CodeHookFailure: {
		Category:   CategoryReconcile,
		Message:    "Lifecycle hook failed",
		Suggestion: "The host subtree may be inconsistent. Remount it from scratch.",
		Fatal:      true,
	},
	CodeModuleApplier: {
		Category:   CategoryReconcile,
		Message:    "Module applier failed",
		Suggestion: "The host subtree may be inconsistent. Remount it from scratch.",
		Fatal:      true,
	},
	CodeHostFailure: {
		Category:   CategoryReconcile,
		Message:    "Host operation failed",
		Suggestion: "The host subtree may be inconsistent. Remount it from scratch.",
		Fatal:      true,
	},

	// ============================================
	// Document Errors (R010-R019)
	// ============================================

	CodeInvalidDocument: {
		Category:   CategoryDocument,
		Message:    "Invalid tree document",
		Suggestion: "Each node needs either `text` or `sel`; elements need a `key`.",
	},

	// ============================================
	// Config Errors (R020-R029)
	// ============================================

	CodeInvalidConfig: {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Check reconcile.json against the documented fields.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
