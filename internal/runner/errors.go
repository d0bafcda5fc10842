package runner

// invalidQuotaError signals a resource quota a runner cannot be built from.
type invalidQuotaError struct{ msg string }

func (e invalidQuotaError) Error() string { return "invalid resource quota: " + e.msg }

// ErrInvalidQuota constructs an invalidQuotaError.
func ErrInvalidQuota(msg string) error { return invalidQuotaError{msg: msg} }

// IsInvalidQuota reports whether err indicates an unusable resource quota.
func IsInvalidQuota(err error) bool {
	_, ok := err.(invalidQuotaError)
	return ok
}

// invalidBatchError signals a malformed batch, for 400 mapping.
type invalidBatchError struct{ msg string }

func (e invalidBatchError) Error() string { return "invalid batch: " + e.msg }

// ErrInvalidBatch constructs an invalidBatchError.
func ErrInvalidBatch(msg string) error { return invalidBatchError{msg: msg} }

// IsInvalidBatch reports whether err indicates a malformed batch.
func IsInvalidBatch(err error) bool {
	_, ok := err.(invalidBatchError)
	return ok
}
