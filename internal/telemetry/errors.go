package telemetry

import "codeberg.org/mutker/ryzenctl/internal/errors"

const (
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("telemetry_invalid_db_path")

	ErrTransactionFailed = errors.ErrorCode("telemetry_transaction_failed")
	ErrStorageAccess     = errors.ErrStorageAccess
	ErrServiceShutdown   = errors.ErrShutdownFailed

	ErrInvalidRecord    = errors.ErrorCode("telemetry_invalid_record")
	ErrRecordFailed     = errors.ErrorCode("telemetry_record_failed")
	ErrOperationTimeout = errors.ErrTimeout
)
