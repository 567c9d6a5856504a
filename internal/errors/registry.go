package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No statekit.json was found at the given path.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "statekit.json exists but could not be read or parsed.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Unknown storage backend",
		Detail:   "The configured storage backend is not one of: memory, file, redis, sql, s3, null.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Incomplete backend configuration",
		Detail:   "The selected storage backend is missing required settings.",
	},

	// ============================================
	// Storage Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryStorage,
		Message:  "Storage backend initialization failed",
		Detail:   "The configured storage backend could not be opened.",
	},

	// ============================================
	// State Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryState,
		Message:  "Base64 encoding unavailable",
		Detail:   "Basic credentials cannot be formatted without a base64 transform.",
	},
}
