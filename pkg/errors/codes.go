package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_012"

	// CodeOK is the sentinel returned by GetCode for a nil error.
	CodeOK ErrorCode = "OK"
	// CodeUnknown is returned by GetCode when err carries no AppError.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Contract analysis error codes.
const (
	ErrCodeContractEmptyText      ErrorCode = "CONTRACT_001"
	ErrCodeAnalysisNotFound       ErrorCode = "CONTRACT_002"
	ErrCodeCatalogInvalid         ErrorCode = "CONTRACT_003"
	ErrCodeHistoryQueryFailed     ErrorCode = "CONTRACT_004"
	ErrCodeArchiveWriteFailed     ErrorCode = "CONTRACT_005"
	ErrCodeEventPublishFailed     ErrorCode = "CONTRACT_006"
)

// Classifier error codes.
const (
	ErrCodeClassifierUnavailable ErrorCode = "CLS_001"
	ErrCodeClassifierTimeout     ErrorCode = "CLS_002"
	ErrCodeClassifierBadOutput   ErrorCode = "CLS_003"
	ErrCodeModelConfigInvalid    ErrorCode = "CLS_004"
)

// HTTPStatus maps an error code to the HTTP status the API layer should emit.
// Unknown codes map to 500 so that unexpected failures are never reported as
// client errors.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeContractEmptyText:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeAnalysisNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTimeout, ErrCodeClassifierTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeServiceUnavailable, ErrCodeClassifierUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
