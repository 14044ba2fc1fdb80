// Package errors provides structured error handling for docdex.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (index files, stored documents)
//   - 3XX: Embedding provider errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryProvider indicates embedding provider errors.
	CategoryProvider Category = "PROVIDER"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeProviderNotConfigured = "ERR_101_PROVIDER_NOT_CONFIGURED"
	ErrCodeConfigInvalid         = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeIndexIO      = "ERR_201_INDEX_IO"
	ErrCodeCorruptIndex = "ERR_202_CORRUPT_INDEX"
	ErrCodeDocumentIO   = "ERR_203_DOCUMENT_IO"

	// Provider errors (300-399)
	ErrCodeProviderStatus   = "ERR_301_PROVIDER_STATUS"
	ErrCodeProviderResponse = "ERR_302_PROVIDER_RESPONSE"

	// Validation errors (400-499)
	ErrCodeUnsupportedFormat = "ERR_401_UNSUPPORTED_FORMAT"
	ErrCodeInvalidInput      = "ERR_402_INVALID_INPUT"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryProvider
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
