package errors

import "net/http"

// HTTPStatus maps an error to the status the trigger endpoint returns.
func HTTPStatus(err error) int {
	stdErr := AsStandard(err)
	if stdErr == nil {
		return http.StatusOK
	}
	switch stdErr.Code {
	case ErrCodeRunInProgress:
		return http.StatusConflict
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeCRMNotConfigured, ErrCodeConfigInvalid:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ToResponse renders err as the JSON error body of a failed batch.
func ToResponse(err error) map[string]interface{} {
	stdErr := AsStandard(err)
	if stdErr == nil {
		return map[string]interface{}{}
	}
	body := map[string]interface{}{
		"error":     stdErr.Error(),
		"code":      stdErr.Code,
		"retryable": stdErr.Retryable,
	}
	if len(stdErr.Metadata) > 0 {
		body["metadata"] = stdErr.Metadata
	}
	return body
}
