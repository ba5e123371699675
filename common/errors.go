package common

import "errors"

const (
	ErrCodeFetchUnreachable      = "fetch.unreachable"
	ErrCodeFetchBadStatus        = "fetch.bad_status"
	ErrCodeFetchDecode           = "fetch.decode"
	ErrCodeFetchMissingField     = "fetch.missing_field"
	ErrCodeIdMissing             = "validation.id.missing"
	ErrCodeQueueMissing          = "validation.queue.missing"
	ErrCodePayloadInvalidJson    = "validation.payload.invalid_json"
	ErrCodeTimeoutNegative       = "validation.timeout.negative"
	ErrCodeTimeoutTooLarge       = "validation.timeout.too_large"
	ErrCodeMaxRetriesNegative    = "validation.max_retries.negative"
	ErrCodeEnqueueRejected       = "enqueue.rejected"
	ErrCodeEnqueueUnreachable    = "enqueue.unreachable"
	ErrCodeBadRequestInvalidBody = "bad_request.body.invalid"
	ErrCodeNotFoundJob           = "not_found.job"
	ErrCodeUnhealthy             = "unhealthy"
	ErrCodeInternal              = "internal"
)

var (
	ErrFetchUnreachable   = ConsoleError{Code: ErrCodeFetchUnreachable}
	ErrFetchBadStatus     = ConsoleError{Code: ErrCodeFetchBadStatus}
	ErrFetchDecode        = ConsoleError{Code: ErrCodeFetchDecode}
	ErrFetchMissingField  = ConsoleError{Code: ErrCodeFetchMissingField}
	ErrIdMissing          = ConsoleError{Code: ErrCodeIdMissing}
	ErrQueueMissing       = ConsoleError{Code: ErrCodeQueueMissing}
	ErrPayloadInvalidJson = ConsoleError{Code: ErrCodePayloadInvalidJson}
	ErrTimeoutNegative    = ConsoleError{Code: ErrCodeTimeoutNegative}
	ErrTimeoutTooLarge    = ConsoleError{Code: ErrCodeTimeoutTooLarge}
	ErrMaxRetriesNegative = ConsoleError{Code: ErrCodeMaxRetriesNegative}
	ErrEnqueueRejected    = ConsoleError{Code: ErrCodeEnqueueRejected}
	ErrEnqueueUnreachable = ConsoleError{Code: ErrCodeEnqueueUnreachable}
	ErrInternal           = ConsoleError{Code: ErrCodeInternal}
)

type ConsoleError struct {
	Code string
}

func (ce ConsoleError) Error() string {
	return ce.Code
}

// IsValidationError reports whether err was raised by local form validation, i.e. before any network call.
func IsValidationError(err error) bool {
	var ce ConsoleError
	if !errors.As(err, &ce) {
		return false
	}
	switch ce.Code {
	case ErrCodeIdMissing, ErrCodeQueueMissing, ErrCodePayloadInvalidJson, ErrCodeTimeoutNegative, ErrCodeTimeoutTooLarge, ErrCodeMaxRetriesNegative:
		return true
	}
	return false
}

// UserMessage returns the text shown next to the enqueue form for the given error.
func UserMessage(err error) string {
	var ce ConsoleError
	if !errors.As(err, &ce) {
		return "Unexpected error"
	}
	switch ce.Code {
	case ErrCodeIdMissing:
		return "Job name is required"
	case ErrCodeQueueMissing:
		return "Queue is required"
	case ErrCodePayloadInvalidJson:
		return "Invalid JSON in payload"
	case ErrCodeTimeoutNegative:
		return "Timeout must not be negative"
	case ErrCodeTimeoutTooLarge:
		return "Timeout is too large"
	case ErrCodeMaxRetriesNegative:
		return "Max retries must not be negative"
	case ErrCodeEnqueueRejected, ErrCodeEnqueueUnreachable:
		return "Failed to enqueue job"
	}
	return "Unexpected error"
}
