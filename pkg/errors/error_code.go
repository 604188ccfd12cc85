package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidFields        ErrorCode = 102
	ErrCodeInvalidAdjustType    ErrorCode = 103
	ErrCodeInvalidAdjustFactor  ErrorCode = 104
	ErrCodeMissingParameter     ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeInstrumentNotFound    ErrorCode = 203

	// Capability errors (300-399)
	ErrCodeUnsupportedFrequency ErrorCode = 300
	ErrCodeNotProvided          ErrorCode = 301

	// Recorder errors (400-499)
	ErrCodeRecorderFailed ErrorCode = 400
	ErrCodeMetaConflict   ErrorCode = 401
	ErrCodeExportFailed   ErrorCode = 402
)
