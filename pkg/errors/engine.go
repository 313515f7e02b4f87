package errors

// EngineError is a specialized error type for map-engine failures: capacity
// exhaustion, snapshot validation, and codec-contract violations. It embeds
// baseError to inherit chaining, codes, and structured details, then adds
// the bucket/log bookkeeping that makes these failures actionable.
type EngineError struct {
	*baseError

	// bucketCount records the table size at the time of failure, useful for
	// correlating capacity errors with the resize policy.
	bucketCount uint32

	// logLength records the paged-storage size at the time of failure.
	logLength int64

	// attempt records which retry of the internal 3-retry policy failed.
	attempt int
}

// NewEngineError creates a new engine-specific error with the provided context.
func NewEngineError(err error, code ErrorCode, msg string) *EngineError {
	return &EngineError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the EngineError type.
func (ee *EngineError) WithMessage(msg string) *EngineError {
	ee.baseError.WithMessage(msg)
	return ee
}

// WithCode sets the error code while preserving the EngineError type.
func (ee *EngineError) WithCode(code ErrorCode) *EngineError {
	ee.baseError.WithCode(code)
	return ee
}

// WithDetail adds contextual information while maintaining the EngineError type.
func (ee *EngineError) WithDetail(key string, value any) *EngineError {
	ee.baseError.WithDetail(key, value)
	return ee
}

// WithBucketCount records the table size at the time of failure.
func (ee *EngineError) WithBucketCount(count uint32) *EngineError {
	ee.bucketCount = count
	return ee
}

// WithLogLength records the paged-storage size at the time of failure.
func (ee *EngineError) WithLogLength(length int64) *EngineError {
	ee.logLength = length
	return ee
}

// WithAttempt records which retry attempt of the internal retry policy failed.
func (ee *EngineError) WithAttempt(attempt int) *EngineError {
	ee.attempt = attempt
	return ee
}

// BucketCount returns the table size recorded at the time of failure.
func (ee *EngineError) BucketCount() uint32 {
	return ee.bucketCount
}

// LogLength returns the paged-storage size recorded at the time of failure.
func (ee *EngineError) LogLength() int64 {
	return ee.logLength
}

// Attempt returns which retry attempt failed.
func (ee *EngineError) Attempt() int {
	return ee.attempt
}

// NewCapacityExhaustedError creates an error for a log or table growth
// retry budget that ran out without satisfying the triggering operation.
func NewCapacityExhaustedError(resource string, attempt int) *EngineError {
	return NewEngineError(nil, ErrorCodeCapacityExhausted, "capacity exhausted after retries").
		WithAttempt(attempt).
		WithDetail("resource", resource)
}

// NewInvalidSnapshotError creates an error for a malformed snapshot blob.
func NewInvalidSnapshotError(reason string) *EngineError {
	return NewEngineError(nil, ErrorCodeInvalidSnapshot, "invalid snapshot").
		WithDetail("reason", reason)
}
