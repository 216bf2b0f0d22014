package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E039)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside a render pass",
		Detail:   "Hooks acquire slots from the instance that is currently rendering. Call them between StartRender and EndRender, or inside hooks.Render.",
		DocURL:   "https://memokit.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed between renders",
		Detail:   "Slots are addressed by call order. A render function must call the same hooks in the same order on every pass, otherwise cached values end up attached to the wrong call site.",
		DocURL:   "https://memokit.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Hook slot type mismatch",
		Detail:   "The slot at this position was created by a different kind of hook on an earlier render.",
		DocURL:   "https://memokit.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Instance disposed",
		Detail:   "The component instance has been unmounted and its slots discarded.",
		DocURL:   "https://memokit.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryRuntime,
		Message:  "Render pass already active",
		Detail:   "StartRender was called on an instance that is already rendering. Render passes of one instance never overlap.",
		DocURL:   "https://memokit.dev/docs/errors/E005",
	},
	"E006": {
		Category: CategoryRuntime,
		Message:  "Auto callback requires a function",
		Detail:   "UseAutoCallback forwards calls to the latest function; its type parameter must be a func type.",
		DocURL:   "https://memokit.dev/docs/errors/E006",
	},
	"E007": {
		Category: CategoryRuntime,
		Message:  "Too many re-renders",
		Detail:   "State was set during every render pass. Move the update into an event handler or guard it with a condition.",
		DocURL:   "https://memokit.dev/docs/errors/E007",
	},

	// ============================================
	// Validation Errors (E080-E099)
	// ============================================

	"E080": {
		Category: CategoryValidation,
		Message:  "Invalid toast request",
		Detail:   "The request body must be a JSON object with a non-empty message.",
		DocURL:   "https://memokit.dev/docs/errors/E080",
	},
	"E081": {
		Category: CategoryValidation,
		Message:  "Unknown toast type",
		Detail:   "Toast type must be one of success, error, warning or info.",
		DocURL:   "https://memokit.dev/docs/errors/E081",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
		DocURL:   "https://memokit.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
		DocURL:   "https://memokit.dev/docs/errors/E121",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The toast server stopped with an error.",
		DocURL:   "https://memokit.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Unknown benchmark",
		Detail:   "The requested benchmark scenario does not exist.",
		DocURL:   "https://memokit.dev/docs/errors/E141",
	},
}
