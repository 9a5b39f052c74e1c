package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Lifecycle errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Classification errors
	ErrMalformedSignature ErrorCode = "malformed_signature"
	ErrUnresolvedPreset   ErrorCode = "unresolved_preset"
	ErrInventoryFailed    ErrorCode = "inventory_failed"
	ErrInvalidCatalog     ErrorCode = "invalid_catalog"

	// Apply errors
	ErrNotReady                ErrorCode = "not_ready"
	ErrUnsupportedPlatform     ErrorCode = "unsupported_platform"
	ErrUtilityInvocationFailed ErrorCode = "utility_invocation_failed"
	ErrUtilityNotFound         ErrorCode = "utility_not_found"
	ErrApplyBusy               ErrorCode = "apply_busy"
	ErrCommandFailed           ErrorCode = "command_failed"
	ErrCredentialUnavailable   ErrorCode = "credential_unavailable"

	// Storage errors
	ErrStateNotFound ErrorCode = "state_not_found"
	ErrStorageAccess ErrorCode = "storage_access_failed"
	ErrTimeout       ErrorCode = "operation_timeout"
)

var errorMessages = map[ErrorCode]string{
	ErrInternal:                "Internal error occurred",
	ErrInvalidArgument:         "Invalid argument provided",
	ErrUnavailable:             "Service unavailable",
	ErrInvalidConfig:           "Invalid configuration",
	ErrBindFlags:               "Failed to bind flags",
	ErrReadConfig:              "Failed to read configuration",
	ErrInvalidInterval:         "Invalid interval value",
	ErrInvalidLogLevel:         "Invalid log level",
	ErrInitFailed:              "Initialization failed",
	ErrShutdownFailed:          "Shutdown failed",
	ErrAlreadyRunning:          "Another apply loop is already running",
	ErrMalformedSignature:      "Malformed processor signature",
	ErrUnresolvedPreset:        "Preset could not be resolved",
	ErrInventoryFailed:         "Failed to collect hardware information",
	ErrInvalidCatalog:          "Invalid preset catalog",
	ErrNotReady:                "System is not ready for RyzenAdj",
	ErrUnsupportedPlatform:     "Unsupported platform",
	ErrUtilityInvocationFailed: "RyzenAdj invocation failed",
	ErrUtilityNotFound:         "RyzenAdj not found",
	ErrApplyBusy:               "An invocation is already in flight",
	ErrCommandFailed:           "Failed to run command",
	ErrCredentialUnavailable:   "No credential available for privileged command",
	ErrStateNotFound:           "No saved state",
	ErrStorageAccess:           "Failed to access state storage",
	ErrTimeout:                 "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
