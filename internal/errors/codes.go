package errors

// Error codes returned in the "error" field of JSON error responses.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map on the code, not the message.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed body
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // non-numeric path id
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // e.g. price <= 0
	ValidationRequired     = "VALIDATION_REQUIRED"      // missing field

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Flavors (FLAVOR_) ====================
	FlavorNotFound   = "FLAVOR_NOT_FOUND"
	FlavorNameExists = "FLAVOR_NAME_EXISTS"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadDisabled        = "UPLOAD_DISABLED"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
